// Package emitter writes the generated .htaccess file.
package emitter

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"csv2htaccess/internal/normalizer"
)

// Emitter writes generator blocks and rewrite rules to an output stream.
// Every rule is flushed as soon as it is written.
type Emitter struct {
	w *bufio.Writer
}

// New creates an Emitter writing to w.
func New(w io.Writer) *Emitter {
	return &Emitter{w: bufio.NewWriter(w)}
}

var controlStripper = strings.NewReplacer("\n", "", "\r", "", "\x00", "")

// Sanitize removes newline, carriage return and NUL characters.
func Sanitize(s string) string {
	return controlStripper.Replace(s)
}

// IsAbsolute reports whether target already names a full http(s) URL.
func IsAbsolute(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// FormatRule renders a rule as a single RewriteRule line, newline included.
func FormatRule(rule normalizer.RedirectRule) string {
	from := Sanitize(rule.FromPath)
	to := Sanitize(rule.ToPath)
	status := Sanitize(rule.StatusCode)

	var b strings.Builder
	b.WriteString("RewriteRule ")
	if from == "/" {
		b.WriteString("^" + from + "$ ")
	} else {
		b.WriteString("^/?" + from + "/?$ ")
	}
	if !IsAbsolute(to) {
		b.WriteString("/")
	}
	b.WriteString(to)
	b.WriteString(" [NC,R=" + status + ",L]\n")
	return b.String()
}

// WriteRule appends one rule and flushes it.
func (e *Emitter) WriteRule(rule normalizer.RedirectRule) error {
	if _, err := e.w.WriteString(FormatRule(rule)); err != nil {
		return err
	}
	return e.w.Flush()
}

// WriteBanner writes the generator header. The timestamp is the only line
// that depends on at.
func (e *Emitter) WriteBanner(version string, at time.Time) error {
	fmt.Fprintf(e.w, "# CSV to .htaccess generator\n")
	fmt.Fprintf(e.w, "# Version: %s\n", version)
	fmt.Fprintf(e.w, "# Generation started at %s\n", at.Format(time.ANSIC))
	fmt.Fprintf(e.w, "# The license of the generator does not apply to the content of this file.\n\n")
	return e.w.Flush()
}

// WritePrefix copies prefix content verbatim between the prefix markers.
func (e *Emitter) WritePrefix(content string) error {
	fmt.Fprintf(e.w, "# BEGIN GENERATOR PREFIX\n\n%s\n\n# END GENERATOR PREFIX\n\n", content)
	return e.w.Flush()
}

// WriteSuffix copies suffix content verbatim between the suffix markers.
func (e *Emitter) WriteSuffix(content string) error {
	fmt.Fprintf(e.w, "\n# BEGIN GENERATOR SUFFIX\n\n%s\n\n# END GENERATOR SUFFIX\n\n", content)
	return e.w.Flush()
}
