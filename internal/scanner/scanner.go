// Package scanner implements the Block Scanner: it turns the lines of a
// documentation-style input file into a stream of TestBlocks, without ever
// executing anything. Keeping scanning and execution strictly separated is
// what lets list-only modes exist and ordinals be assigned deterministically
// before any command runs.
package scanner

import (
	"strings"
)

// Scan walks content (already CRLF-normalized by the caller) line by line
// and returns every Block it finds, in discovery order. filename is used
// only to annotate source locations in the returned blocks and in errors.
func Scan(filename, content string, cfg Config) ([]Block, error) {
	lines := splitLines(content)
	promptLine := cfg.Prefix + cfg.Prompt

	s := &state{
		filename:   filename,
		lines:      lines,
		cfg:        cfg,
		promptLine: promptLine,
	}
	return s.run()
}

type state struct {
	filename   string
	lines      []string
	cfg        Config
	promptLine string

	blocks []Block
	cur    *Block
}

func (s *state) run() ([]Block, error) {
	i := 0
	for i < len(s.lines) {
		line := s.lines[i]
		var consumed bool
		var err error
		if s.cur == nil {
			consumed, err = s.stepIdle(line, i+1)
		} else {
			consumed, err = s.stepCollect(line, i+1)
		}
		if err != nil {
			return nil, err
		}
		if consumed {
			i++
		}
	}
	s.close()
	return s.blocks, nil
}

// stepIdle handles a line while no block is open. Returns whether the line
// was consumed (true unless the caller should reprocess it, which never
// happens from IDLE).
func (s *state) stepIdle(line string, lineNo int) (bool, error) {
	if s.isPromptAlone(line) {
		return true, nil
	}
	if s.isCommandLine(line) {
		return true, s.openCommand(line, lineNo)
	}
	// Prose outside any block: ignored.
	return true, nil
}

// stepCollect handles a line while a multiline (output-mode) block is open.
func (s *state) stepCollect(line string, lineNo int) (bool, error) {
	switch {
	case s.isCommandLine(line):
		s.close()
		// Reprocess this same line from IDLE.
		return false, nil
	case s.isPromptAlone(line):
		s.close()
		return true, nil
	case s.cfg.Prefix != "" && !strings.HasPrefix(line, s.cfg.Prefix):
		s.close()
		// Do not consume: let IDLE decide what this line is (almost
		// certainly prose, since it lacks the prefix entirely).
		return false, nil
	default:
		stripped := strings.TrimPrefix(line, s.cfg.Prefix)
		s.cur.Expected += stripped + "\n"
		return true, nil
	}
}

// openCommand processes a recognized "prefix+prompt" line from IDLE (or
// from a reprocessed COLLECT-close): strips the prompt and either emits a
// completed inline block or opens a new output-mode block.
func (s *state) openCommand(line string, lineNo int) error {
	rest := strings.TrimPrefix(line, s.promptLine)

	first := strings.Index(rest, s.cfg.InlinePrefix)
	if first < 0 {
		s.cur = &Block{
			Command:    rest,
			Mode:       ModeOutput,
			SourceFile: s.filename,
			SourceLine: lineNo,
		}
		return nil
	}

	last := strings.LastIndex(rest, s.cfg.InlinePrefix)
	command := rest[:first]
	inline := rest[last+len(s.cfg.InlinePrefix):]

	mode, expected, err := classifyInline(inline)
	if err != nil {
		return &ParseError{File: s.filename, Line: lineNo, Msg: err.Error()}
	}

	s.blocks = append(s.blocks, Block{
		Command:    command,
		Expected:   expected,
		Mode:       mode,
		SourceFile: s.filename,
		SourceLine: lineNo,
	})
	return nil
}

func (s *state) close() {
	if s.cur != nil {
		s.blocks = append(s.blocks, *s.cur)
		s.cur = nil
	}
}

// isPromptAlone recognizes the three literal forms that mean "a prompt with
// no command attached": the exact prompt, the prompt with its trailing
// space trimmed, and the prompt followed by one extra space.
func (s *state) isPromptAlone(line string) bool {
	p := s.promptLine
	return line == p || line == strings.TrimRight(p, " ") || line == p+" "
}

// isCommandLine recognizes a real command line: it starts with
// prefix+prompt and is not one of the "prompt alone" forms.
func (s *state) isCommandLine(line string) bool {
	return strings.HasPrefix(line, s.promptLine) && !s.isPromptAlone(line)
}

func classifyInline(text string) (Mode, string, error) {
	switch {
	case strings.HasPrefix(text, "--regex "):
		expected := text[len("--regex "):]
		if expected == "" {
			return 0, "", errEmptyPayload("--regex")
		}
		return ModeRegex, expected, nil
	case strings.HasPrefix(text, "--file "):
		expected := text[len("--file "):]
		if expected == "" {
			return 0, "", errEmptyPayload("--file")
		}
		return ModeFile, expected, nil
	case strings.HasPrefix(text, "--text "):
		return ModeText, text[len("--text "):], nil
	default:
		return ModeText, text, nil
	}
}

func errEmptyPayload(directive string) error {
	return &emptyPayloadError{directive: directive}
}

type emptyPayloadError struct {
	directive string
}

func (e *emptyPayloadError) Error() string {
	return "empty expected payload for " + e.directive + " annotation"
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return []string{""}
	}
	return strings.Split(content, "\n")
}
