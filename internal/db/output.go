package db

import (
	"fmt"
	"strings"

	"github.com/orsinium-labs/enum"
)

// OutputType selects how query rows are materialized.
type OutputType enum.Member[string]

var (
	// OutputNamedRow returns every row as a Row with named fields.
	OutputNamedRow = OutputType{Value: "namedrow"}
	// OutputMap returns every row as a map keyed by column name.
	OutputMap = OutputType{Value: "map"}
	// OutputTuple returns every row as a plain slice of values.
	OutputTuple = OutputType{Value: "tuple"}

	OutputTypes = enum.New(OutputNamedRow, OutputMap, OutputTuple)
)

// outputTypeAliases maps alternative names to their output type.
var outputTypeAliases = map[string]OutputType{
	"namedtuple": OutputNamedRow,
	"named":      OutputNamedRow,
	"dict":       OutputMap,
	"list":       OutputTuple,
}

// ParseOutputType returns the OutputType for the given name. Names are case
// insensitive and a few aliases like "dict" are accepted.
func ParseOutputType(name string) (OutputType, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))

	if alias, ok := outputTypeAliases[normalized]; ok {
		return alias, nil
	}
	if output := OutputTypes.Parse(normalized); output != nil {
		return *output, nil
	}

	valid := []string{}
	for _, member := range OutputTypes.Members() {
		valid = append(valid, member.Value)
	}
	return OutputType{}, fmt.Errorf(
		"invalid output type %q, valid values are: %s",
		name, strings.Join(valid, ", "),
	)
}

// String returns the name of the output type.
func (o OutputType) String() string {
	return o.Value
}
