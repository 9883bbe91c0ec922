package command

import (
	"fmt"
	"strings"
)

// reply builds the Markdown a command answers with. Blocks are separated
// by a blank line.
type reply struct {
	blocks []string
}

func newReply(title string) *reply {
	return &reply{blocks: []string{fmt.Sprintf("⚙️ **%s**", title)}}
}

func (r *reply) fields(pairs ...string) *reply {
	var sb strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(&sb, "**%s**  ›  `%s`\n", pairs[i], pairs[i+1])
	}
	return r.add(sb.String())
}

// list adds items as a bulleted block under an optional heading.
func (r *reply) list(heading string, items []string) *reply {
	var sb strings.Builder
	if heading != "" {
		fmt.Fprintf(&sb, "📋 **%s**\n", heading)
	}
	for _, item := range items {
		fmt.Fprintf(&sb, "› %s\n", item)
	}
	return r.add(sb.String())
}

func (r *reply) usage(syntax string, examples ...string) *reply {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Usage**: `%s`\n", syntax)
	if len(examples) > 0 {
		sb.WriteString("**Examples**:\n")
		for _, ex := range examples {
			fmt.Fprintf(&sb, "`%s`\n", ex)
		}
	}
	return r.add(sb.String())
}

func (r *reply) tip(text string) *reply {
	return r.add("**Tip**: " + text)
}

func (r *reply) add(block string) *reply {
	if block = strings.TrimRight(block, "\n"); block != "" {
		r.blocks = append(r.blocks, block)
	}
	return r
}

func (r *reply) String() string {
	return strings.Join(r.blocks, "\n\n") + "\n"
}

func done(message string) string {
	return fmt.Sprintf("✅ **%s**\n", message)
}

func failed(command string, err error) string {
	return fmt.Sprintf("❌ **/%s failed**\n\n**Issue**: %s\n", command, err)
}
