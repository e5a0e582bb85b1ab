package hclspec

import "github.com/hashicorp/hcl/v2"

// benchmarkSchema is the top-level structure of a .hcl specification file,
// decoded via gohcl.
type benchmarkSchema struct {
	Name          string           `hcl:"name"`
	Timeout       float64          `hcl:"timeout"`
	SkipOnTimeout *bool            `hcl:"skip_on_timeout,optional"`
	Models        []*modelSchema   `hcl:"model,block"`
	Programs      []*programSchema `hcl:"program,block"`
}

// modelSchema is a `model "<name>" { … }` block. The matrix stays an
// expression so numeric and string cells can both pass through cty
// conversion.
type modelSchema struct {
	Name      string         `hcl:"name,label"`
	Cmd       string         `hcl:"cmd"`
	Args      []string       `hcl:"args,optional"`
	Matrix    hcl.Expression `hcl:"matrix,optional"`
	ResetSkip *int           `hcl:"reset_skip,optional"`
}

// programSchema is a `program "<name>" { … }` block.
type programSchema struct {
	Name  string   `hcl:"name,label"`
	Cmd   string   `hcl:"cmd"`
	Args  []string `hcl:"args,optional"`
	Stats []string `hcl:"stats,optional"`
}
