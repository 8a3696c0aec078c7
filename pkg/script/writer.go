package script

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/entrhq/fur/pkg/graph"
)

const indentUnit = "    "

// Write renders a committed thread back to .frs text. messages must hold
// every message reachable from the thread; ids missing from it are skipped.
// Every jot names its avatar explicitly; a `user` line naming the first
// speaker keeps the output parseable without a registry. Quoted values
// escape backslashes and quotes, so Parse reads back exactly what was
// written.
func Write(w io.Writer, t *graph.Thread, messages map[string]*graph.Message) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "new %s\n", quoteString(t.Title))
	if len(t.Tags) > 0 {
		quoted := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			quoted[i] = quoteString(tag)
		}
		fmt.Fprintf(bw, "tags = [%s]\n", strings.Join(quoted, ", "))
	}
	for _, id := range t.Messages {
		if m, ok := messages[id]; ok && m.Avatar != "" {
			fmt.Fprintf(bw, "user = %s\n", avatarToken(m.Avatar))
			break
		}
	}
	bw.WriteString("\n")

	visited := make(map[string]bool)
	for _, id := range t.Messages {
		writeMessage(bw, id, 0, messages, visited)
	}
	return bw.Flush()
}

func writeMessage(w *bufio.Writer, id string, depth int, messages map[string]*graph.Message, visited map[string]bool) {
	m, ok := messages[id]
	if !ok || visited[id] {
		return
	}
	visited[id] = true
	pad := strings.Repeat(indentUnit, depth)

	fmt.Fprintf(w, "%sjot %s %s\n", pad, avatarToken(m.Avatar), bodyToken(m.Body))

	for _, group := range m.Branches {
		fmt.Fprintf(w, "%sbranch {\n", pad)
		for _, child := range group {
			writeMessage(w, child, depth+1, messages, visited)
		}
		fmt.Fprintf(w, "%s}\n", pad)
	}
}

func avatarToken(name string) string {
	if name == "" || strings.ContainsAny(name, " \t\"") || strings.HasPrefix(name, "--") {
		return quoteString(name)
	}
	return name
}

func bodyToken(b graph.Body) string {
	switch b.Kind {
	case graph.BodyMarkdown:
		return flagFile + " " + quoteString(b.Value)
	case graph.BodyAttachment:
		return flagAttach + " " + quoteString(b.Value)
	case graph.BodyEmpty:
		return flagEmpty
	default:
		// Continuation lines are not indented; escaping keeps inner quotes
		// from closing the text early.
		return quoteString(b.Value)
	}
}
