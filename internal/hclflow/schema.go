package hclflow

import (
	"github.com/hashicorp/hcl/v2"
)

// fileSchema is the top-level structure of a flow file.
type fileSchema struct {
	Nodes []*nodeSchema `hcl:"node,block"`
	Body  hcl.Body      `hcl:",remain"`
}

// nodeSchema is one `node "<id>"` block.
type nodeSchema struct {
	ID      string         `hcl:"id,label"`
	BlockID string         `hcl:"block"`
	Inputs  []*inputSchema `hcl:"input,block"`
	Params  []*paramSchema `hcl:"param,block"`
}

// inputSchema is one `input "<port>"` block. Its body carries exactly one of
// the `value` and `from` attributes, distinguished during translation.
type inputSchema struct {
	Port string   `hcl:"port,label"`
	Body hcl.Body `hcl:",remain"`
}

// paramSchema is one `param "<name>"` block.
type paramSchema struct {
	Name  string         `hcl:"name,label"`
	Value hcl.Expression `hcl:"value"`
}
