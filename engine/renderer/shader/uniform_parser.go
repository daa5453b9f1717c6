package shader

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
)

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}\s*;`)

	// fieldRegex matches "type name;" or "type name[N];" inside a struct body
	fieldRegex = regexp.MustCompile(`(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)

	// uniformRegex matches "uniform type name;" or "uniform type name[N];" at file scope
	uniformRegex = regexp.MustCompile(`\buniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)
)

// ParseDeclarations extracts struct, uniform and sampler declarations from every stage. Structs
// are shared across stages by name. Each stage with plain uniforms gets its own UniformBuffer.
// Samplers get consecutive texture unit registers in declaration order.
//
// Parameters:
//   - stages: the stage sources returned by SplitStages
//
// Returns:
//   - Declarations: the parsed declaration tree
//   - error: an error if a declaration uses an unknown type
func ParseDeclarations(stages []backend.ShaderSource) (Declarations, error) {
	var d Declarations
	var nextRegister uint32

	for _, stage := range stages {
		src := stripComments(stage.Source)

		for _, m := range structBlockRegex.FindAllStringSubmatch(src, -1) {
			if d.structIndex(m[1]) >= 0 {
				continue
			}
			st := UniformStruct{Name: m[1]}
			for _, f := range fieldRegex.FindAllStringSubmatch(m[2], -1) {
				decl, err := d.declaration(stage.Stage, f[1], f[2], f[3])
				if err != nil {
					return Declarations{}, fmt.Errorf("struct %s: %w", m[1], err)
				}
				st.addField(decl)
			}
			d.Structs = append(d.Structs, st)
		}

		buf := UniformBuffer{Name: stage.Stage.String() + "_uniforms", Domain: stage.Stage}
		for _, m := range uniformRegex.FindAllStringSubmatch(src, -1) {
			typeName, name := m[1], m[2]
			if rt, ok := resourceTypes[typeName]; ok {
				count := parseCount(m[3])
				if _, exists := d.FindResource(name); exists {
					continue
				}
				d.Resources = append(d.Resources, ResourceDeclaration{Name: name, Type: rt, Count: count, Register: nextRegister})
				nextRegister += count
				continue
			}

			decl, err := d.declaration(stage.Stage, typeName, name, m[3])
			if err != nil {
				return Declarations{}, fmt.Errorf("%s stage: %w", stage.Stage, err)
			}
			buf.push(decl)
		}
		if len(buf.Uniforms) > 0 {
			d.Buffers = append(d.Buffers, buf)
		}
	}
	return d, nil
}

// declaration builds one uniform or field declaration, resolving typeName against the builtin
// types and the structs parsed so far.
func (d *Declarations) declaration(domain backend.ShaderStage, typeName, name, count string) (UniformDeclaration, error) {
	decl := UniformDeclaration{
		Name:   name,
		Count:  parseCount(count),
		Domain: domain,
		Struct: -1,
	}
	if t, ok := uniformTypes[typeName]; ok {
		decl.Type = t
		decl.Size = t.Size() * decl.Count
		return decl, nil
	}
	if idx := d.structIndex(typeName); idx >= 0 {
		decl.Type = UniformTypeStruct
		decl.Struct = idx
		decl.Size = d.Structs[idx].Size * decl.Count
		return decl, nil
	}
	return UniformDeclaration{}, fmt.Errorf("unknown uniform type %q for %q", typeName, name)
}

func parseCount(s string) uint32 {
	if s == "" {
		return 1
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 1
	}
	return uint32(n)
}
