package plugins

import (
	"context"

	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/pipeline"
)

// EditorConfigName is the file EditorConfig creates.
const EditorConfigName = ".editorconfig"

const editorConfig = `# http://editorconfig.org
root = true

[*]
charset = utf-8
end_of_line = lf
indent_size = 2
indent_style = space
insert_final_newline = true
trim_trailing_whitespace = true

[*.md]
trim_trailing_whitespace = false
insert_final_newline = false

[test/fixtures/*]
trim_trailing_whitespace = false
insert_final_newline = false
`

type editorConfigStage struct {
	base   string
	exists func(name string) bool
	seen   bool
}

// EditorConfig passes records through and, once the stream ends, adds a
// standard .editorconfig under base unless one went by or exists reports
// it is already on disk.
func EditorConfig(base string, exists func(name string) bool) pipeline.Stage {
	return &editorConfigStage{base: base, exists: exists}
}

func (s *editorConfigStage) Transform(_ context.Context, rec *file.Record, emit pipeline.Emit) error {
	if rec.Basename() == EditorConfigName {
		s.seen = true
	}
	return emit(rec)
}

func (s *editorConfigStage) Flush(_ context.Context, emit pipeline.Emit) error {
	if s.seen || (s.exists != nil && s.exists(EditorConfigName)) {
		return nil
	}
	rec := file.New(EditorConfigName, s.base, []byte(editorConfig))
	rec.Render = false
	return emit(rec)
}
