// Package sqlsplit splits raw SQL scripts into individual executable
// statements.
//
// The splitter walks the script one character at a time, tracking
// single/double quote state, line and block comments, and parenthesis depth.
// A semicolon only terminates a statement when it appears outside every
// quoted region and comment at parenthesis depth zero, so statement bodies
// with embedded semicolons inside parentheses survive as one statement. When
// the scan fails on malformed input, the splitter logs the failure and falls
// back to naive semicolon splitting rather than failing the caller.
package sqlsplit

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Splitter splits SQL scripts into statements.
//
// Example usage:
//
//	splitter := sqlsplit.New(log)
//	statements := splitter.Split("CREATE TABLE t (id int); DROP TABLE old;")
//	// statements == []string{"CREATE TABLE t (id int)", "DROP TABLE old"}
type Splitter struct {
	log logrus.FieldLogger
}

// New creates a Splitter that reports fallback events to the supplied logger.
func New(log logrus.FieldLogger) *Splitter {
	return &Splitter{log: log}
}

// Split breaks script into trimmed statements, discarding empty and
// pure-comment fragments. It never fails: if the character scan errors on
// malformed input, the ambiguity is logged and the script is split naively on
// every semicolon instead.
func (s *Splitter) Split(script string) []string {
	statements, err := scan(script)
	if err != nil {
		s.log.WithError(err).Warn(
			"statement scan failed, falling back to naive semicolon splitting; boundaries may be wrong for quoted or parenthesized input")
		return naiveSplit(script)
	}
	return statements
}

// scan is the character-level pass. Any panic on malformed input is converted
// to an error so Split can take the fallback path.
func scan(script string) (statements []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			statements, err = nil, errors.Errorf("statement scan: %v", r)
		}
	}()

	var (
		current    strings.Builder
		sawContent bool

		inSingle, inDouble, inLineComment, inBlockComment bool

		parenDepth int
	)

	statements = make([]string, 0, strings.Count(script, ";")+1)
	flush := func() {
		statement := strings.TrimSpace(current.String())
		if sawContent && statement != "" {
			statements = append(statements, statement)
		}
		current.Reset()
		sawContent = false
	}

	for i := 0; i < len(script); i++ {
		c := script[i]

		switch {
		case inLineComment:
			current.WriteByte(c)
			if c == '\n' {
				inLineComment = false
			}

		case inBlockComment:
			current.WriteByte(c)
			if c == '*' && i+1 < len(script) && script[i+1] == '/' {
				current.WriteByte('/')
				i++
				inBlockComment = false
			}

		case inSingle:
			current.WriteByte(c)
			if c == '\'' {
				// A doubled quote is an escaped quote, not a terminator.
				if i+1 < len(script) && script[i+1] == '\'' {
					current.WriteByte('\'')
					i++
				} else {
					inSingle = false
				}
			}

		case inDouble:
			current.WriteByte(c)
			if c == '"' {
				inDouble = false
			}

		case c == '-' && i+1 < len(script) && script[i+1] == '-':
			inLineComment = true
			current.WriteString("--")
			i++

		case c == '/' && i+1 < len(script) && script[i+1] == '*':
			inBlockComment = true
			current.WriteString("/*")
			i++

		case c == '\'':
			inSingle = true
			sawContent = true
			current.WriteByte(c)

		case c == '"':
			inDouble = true
			sawContent = true
			current.WriteByte(c)

		case c == '(':
			parenDepth++
			sawContent = true
			current.WriteByte(c)

		case c == ')':
			parenDepth--
			if parenDepth < 0 {
				panic(errors.Errorf("unbalanced closing parenthesis at offset %d", i))
			}
			sawContent = true
			current.WriteByte(c)

		case c == ';' && parenDepth == 0:
			flush()

		default:
			if !isSpace(c) {
				sawContent = true
			}
			current.WriteByte(c)
		}
	}

	if inSingle || inDouble {
		return nil, errors.New("statement scan: unterminated string literal")
	}
	if parenDepth != 0 {
		return nil, errors.Errorf("statement scan: %d unclosed parentheses", parenDepth)
	}

	flush()
	return statements, nil
}

// naiveSplit is the documented degraded path: split on every semicolon with
// no awareness of quoting or comments.
func naiveSplit(script string) []string {
	fragments := strings.Split(script, ";")
	statements := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if trimmed := strings.TrimSpace(fragment); trimmed != "" {
			statements = append(statements, trimmed)
		}
	}
	return statements
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
