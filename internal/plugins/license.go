package plugins

import (
	"context"
	"fmt"
	"strings"

	"github.com/revamp-labs/revamp/internal/ctxlog"
	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/pipeline"
	"github.com/revamp-labs/revamp/internal/pkgmeta"
)

const mitText = `The MIT License (MIT)

Copyright (c) %s, %s.

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
`

// License regenerates an MIT license file with an up to date copyright
// line. Projects under another license pass through unchanged.
func License(info pkgmeta.Info) pipeline.Stage {
	return pipeline.Map(func(ctx context.Context, rec *file.Record) error {
		if !strings.EqualFold(licenseName(info.License), "MIT") {
			ctxlog.FromContext(ctx).Debug("license is not MIT, leaving file alone",
				"license", info.License, "file", rec.Relative())
			return nil
		}

		years := UpdateYears("", now().Year())
		holder := info.Author.Name
		if c := ParseCopyright(rec.Content()); c != nil {
			years = UpdateYears(c.Years, now().Year())
			if c.Holder != "" {
				holder = c.Holder
			}
		}
		rec.SetContent(fmt.Sprintf(mitText, years, holder))
		return nil
	})
}
