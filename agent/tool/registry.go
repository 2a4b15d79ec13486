package tool

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
)

//go:embed catalog.yaml
var catalogRaw []byte

// Invoker runs a tool with named arguments.
type Invoker func(ctx context.Context, args map[string]any) (contractx.Result, error)

// Spec is one registry entry. It is never mutated after NewRegistry returns.
type Spec struct {
	Name        string
	Description string
	Params      map[string]contractx.ParamType
	Invoke      Invoker
}

type catalogFile struct {
	Tools []catalogEntry `yaml:"tools"`
}

type catalogEntry struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Params      map[string]string `yaml:"params"`
}

// Registry is the immutable name -> Spec table the planner and dispatcher share.
type Registry struct {
	names []string
	specs map[string]Spec
}

var _ contractx.ToolCatalog = (*Registry)(nil)

// NewRegistry binds the embedded catalog to the Northwind data source.
func NewRegistry(ds DataSource) (*Registry, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: data source is required", contractx.ErrValidation)
	}
	return newRegistry(catalogRaw, bindings(ds))
}

func newRegistry(raw []byte, binds map[string]Invoker) (*Registry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %v", contractx.ErrCatalog, err)
	}

	r := &Registry{
		names: make([]string, 0, len(file.Tools)),
		specs: make(map[string]Spec, len(file.Tools)),
	}
	for _, entry := range file.Tools {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: tool without a name", contractx.ErrCatalog)
		}
		if _, dup := r.specs[name]; dup {
			return nil, fmt.Errorf("%w: duplicate tool=%s", contractx.ErrCatalog, name)
		}
		bind, ok := binds[name]
		if !ok {
			return nil, fmt.Errorf("%w: tool=%s has no binding", contractx.ErrCatalog, name)
		}

		params := make(map[string]contractx.ParamType, len(entry.Params))
		for pname, ptype := range entry.Params {
			switch t := contractx.ParamType(ptype); t {
			case contractx.ParamString, contractx.ParamInteger:
				params[pname] = t
			default:
				return nil, fmt.Errorf("%w: tool=%s param=%s has unsupported type %q", contractx.ErrCatalog, name, pname, ptype)
			}
		}

		r.names = append(r.names, name)
		r.specs[name] = Spec{
			Name:        name,
			Description: strings.TrimSpace(entry.Description),
			Params:      params,
			Invoke:      expandNamed(params, bind),
		}
	}

	for name := range binds {
		if _, ok := r.specs[name]; !ok {
			return nil, fmt.Errorf("%w: binding=%s is missing from catalog", contractx.ErrCatalog, name)
		}
	}

	return r, nil
}

// expandNamed rejects arguments the tool does not declare before calling it.
func expandNamed(params map[string]contractx.ParamType, bind Invoker) Invoker {
	return func(ctx context.Context, args map[string]any) (contractx.Result, error) {
		var unexpected []string
		for k := range args {
			if _, ok := params[k]; !ok {
				unexpected = append(unexpected, k)
			}
		}
		if len(unexpected) > 0 {
			sort.Strings(unexpected)
			return nil, fmt.Errorf("%w: unexpected parameter(s) %s", contractx.ErrToolArgs, strings.Join(unexpected, ", "))
		}
		return bind(ctx, args)
	}
}

// Names lists tool names in catalog order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Registry) Spec(name string) (Spec, bool) {
	s, ok := r.specs[name]
	if !ok {
		return Spec{}, false
	}
	s.Params = copyParams(s.Params)
	return s, true
}

// Resolve returns the invocation target for name; unknown names are simply absent.
func (r *Registry) Resolve(name string) (Invoker, bool) {
	s, ok := r.specs[name]
	if !ok {
		return nil, false
	}
	return s.Invoke, true
}

func (r *Registry) Describe() map[string]string {
	out := make(map[string]string, len(r.specs))
	for name, s := range r.specs {
		out[name] = s.Description
	}
	return out
}

func (r *Registry) DescribeWithSchema() map[string]contractx.ToolDescriptor {
	out := make(map[string]contractx.ToolDescriptor, len(r.specs))
	for name, s := range r.specs {
		out[name] = contractx.ToolDescriptor{
			Description: s.Description,
			Params:      copyParams(s.Params),
		}
	}
	return out
}

func copyParams(in map[string]contractx.ParamType) map[string]contractx.ParamType {
	out := make(map[string]contractx.ParamType, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
