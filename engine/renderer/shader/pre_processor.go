package shader

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
)

var (
	// typeDirectiveRegex matches a stage header line such as "#type vertex".
	typeDirectiveRegex = regexp.MustCompile(`^\s*#type\s+(\w+)\s*$`)

	stageNames = map[string]backend.ShaderStage{
		"vertex":   backend.ShaderStageVertex,
		"fragment": backend.ShaderStageFragment,
		"pixel":    backend.ShaderStageFragment,
		"geometry": backend.ShaderStageGeometry,
	}
)

// SplitStages splits a combined shader source into one source per stage. Each stage starts at a
// "#type <stage>" line and runs until the next one; the directive line itself is dropped.
//
// Parameters:
//   - source: the combined GLSL source
//
// Returns:
//   - []backend.ShaderSource: the stage sources in file order
//   - error: an error if the source has no stages, names an unknown stage, repeats a stage or has
//     code before the first directive
func SplitStages(source string) ([]backend.ShaderSource, error) {
	var (
		stages  []backend.ShaderSource
		current *backend.ShaderSource
		body    strings.Builder
		seen    = make(map[backend.ShaderStage]bool)
	)

	flush := func() {
		if current != nil {
			current.Source = body.String()
			stages = append(stages, *current)
		}
		body.Reset()
	}

	for i, line := range strings.Split(source, "\n") {
		m := typeDirectiveRegex.FindStringSubmatch(line)
		if m == nil {
			if current == nil {
				if t := strings.TrimSpace(line); t != "" && !strings.HasPrefix(t, "//") {
					return nil, fmt.Errorf("line %d: code before the first #type directive", i+1)
				}
				continue
			}
			body.WriteString(line)
			body.WriteByte('\n')
			continue
		}

		stage, ok := stageNames[strings.ToLower(m[1])]
		if !ok {
			return nil, fmt.Errorf("line %d: unknown shader stage %q", i+1, m[1])
		}
		if seen[stage] {
			return nil, fmt.Errorf("line %d: duplicate %s stage", i+1, stage)
		}
		seen[stage] = true

		flush()
		current = &backend.ShaderSource{Stage: stage}
	}
	flush()

	if len(stages) == 0 {
		return nil, fmt.Errorf("shader source has no #type directive")
	}
	return stages, nil
}

// stripComments removes // and /* */ comments from GLSL source.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	inBlock := false
	for i := 0; i < len(source); i++ {
		switch {
		case inBlock:
			if source[i] == '*' && i+1 < len(source) && source[i+1] == '/' {
				inBlock = false
				i++
			}
		case source[i] == '/' && i+1 < len(source) && source[i+1] == '*':
			inBlock = true
			i++
		case source[i] == '/' && i+1 < len(source) && source[i+1] == '/':
			for i < len(source) && source[i] != '\n' {
				i++
			}
			if i < len(source) {
				sb.WriteByte('\n')
			}
		default:
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
