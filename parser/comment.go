// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import "github.com/xyzsd/fluent-go/ast"

// parseComment parses a contiguous run of same-level comment lines starting
// at the cursor's current position (spec 4.3). The cursor must already be
// positioned at a '#'. Each line is either empty (bare '#'*N followed
// directly by EOL) or '#'*N + ' ' + text; a missing required space before
// non-empty text is E0003. Lines are joined with '\n'. The run ends at the
// first line that isn't a comment line of the same level, without
// consuming it.
func parseComment(c *cursor) (ast.Comment, error) {
	start := c.Position()
	level, err := commentLevel(c)
	if err != nil {
		return ast.Comment{}, err
	}

	var lines []string
	line, err := parseCommentLine(c)
	if err != nil {
		return ast.Comment{}, err
	}
	lines = append(lines, line)
	c.skipEOL()

	for {
		save := c.Position()
		if !c.IsCurrentChar('#') {
			break
		}
		lvl2, lerr := commentLevel(c)
		if lerr != nil || lvl2 != level {
			c.SetPosition(save)
			break
		}
		l, perr := parseCommentLine(c)
		if perr != nil {
			c.SetPosition(save)
			break
		}
		lines = append(lines, l)
		c.skipEOL()
	}

	text := joinLines(lines)
	return ast.Comment{
		Span:  c.span(start),
		Level: level,
		Text:  text,
	}, nil
}

// commentLevel consumes the leading '#' run (1-3 of them) and returns the
// corresponding CommentLevel, without consuming anything past it.
func commentLevel(c *cursor) (ast.CommentLevel, error) {
	n := 0
	for c.IsCurrentChar('#') && n < 3 {
		c.Inc(1)
		n++
	}
	switch n {
	case 1:
		return ast.CommentRegular, nil
	case 2:
		return ast.CommentGroup, nil
	case 3:
		return ast.CommentResource, nil
	default:
		return 0, newError(E0003, c.line(), c.span(c.Position()), "'#'")
	}
}

// parseCommentLine parses the remainder of one comment line after its
// leading '#' run has already been consumed by commentLevel: either nothing
// (bare marker, immediately EOL) or a single space followed by text to EOL.
func parseCommentLine(c *cursor) (string, error) {
	if c.isEOL() {
		return "", nil
	}
	if err := c.expectChar(' '); err != nil {
		return "", err
	}
	start := c.Position()
	c.skipToEOL()
	return c.substring(start, c.Position()), nil
}

func joinLines(lines []string) string {
	total := 0
	for i, l := range lines {
		total += len(l)
		if i > 0 {
			total++
		}
	}
	buf := make([]byte, 0, total)
	for i, l := range lines {
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = append(buf, l...)
	}
	return string(buf)
}
