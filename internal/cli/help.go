package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Custom help styles
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Raspberry).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(Berry).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Leaf).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(Sprout).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(Slate).
				Italic(true)
)

// StyledHelpPrinter creates a custom help printer with Lipgloss styling.
// Flags are listed in declaration order, grouped by their kong group.
func StyledHelpPrinter(options kong.HelpOptions) kong.HelpPrinter {
	return kong.HelpPrinter(func(options kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		// Title and description
		sb.WriteString(helpTitleStyle.Render(ctx.Model.Name))
		sb.WriteString("\n")
		if ctx.Model.Help != "" {
			sb.WriteString(helpDescStyle.Render(ctx.Model.Help))
			sb.WriteString("\n")
		}

		// Usage
		sb.WriteString(helpSectionStyle.Render("Usage:"))
		sb.WriteString("\n  ")
		sb.WriteString(fmt.Sprintf("%s [OPTION]...", ctx.Model.Name))
		sb.WriteString("\n")

		for _, section := range getSections(ctx) {
			sb.WriteString("\n")
			sb.WriteString(helpSectionStyle.Render(section.title + ":"))
			sb.WriteString("\n")

			width := 0
			for _, f := range section.flags {
				width = max(width, len(f.flags))
			}
			for _, f := range section.flags {
				sb.WriteString("  ")
				sb.WriteString(helpFlagStyle.Render(f.flags))
				if f.help != "" {
					sb.WriteString(strings.Repeat(" ", width-len(f.flags)+2))
					sb.WriteString(f.help)
				}
				if f.defaultVal != "" {
					sb.WriteString(" ")
					sb.WriteString(helpDefaultStyle.Render("(default: " + f.defaultVal + ")"))
				}
				sb.WriteString("\n")
			}
		}

		sb.WriteString("\n")
		_, err := fmt.Fprint(ctx.Stdout, sb.String())
		return err
	})
}

type flag struct {
	flags      string
	help       string
	defaultVal string
}

type section struct {
	title string
	flags []flag
}

func getSections(ctx *kong.Context) []section {
	var sections []section
	index := map[string]int{}

	for _, f := range ctx.Model.Node.Flags {
		if f.Hidden {
			continue
		}
		title := "Flags"
		if f.Group != nil {
			title = f.Group.Title
		}
		i, ok := index[title]
		if !ok {
			i = len(sections)
			index[title] = i
			sections = append(sections, section{title: title})
		}
		sections[i].flags = append(sections[i].flags, describeFlag(f))
	}
	return sections
}

func describeFlag(f *kong.Flag) flag {
	flagStr := ""
	if f.Short != 0 {
		flagStr = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
	} else {
		flagStr = fmt.Sprintf("    --%s", f.Name)
	}

	if !f.IsBool() {
		placeholder := f.PlaceHolder
		if placeholder == "" {
			placeholder = f.Name
		}
		flagStr += " " + strings.ToUpper(placeholder)
	}

	// Only show default if it's a meaningful value (not empty, not type placeholder)
	defaultVal := ""
	if f.HasDefault && !f.IsBool() {
		val := f.Default
		if val != "" && val != "STRING" && val != "BOOL" {
			defaultVal = val
		}
	}

	return flag{
		flags:      flagStr,
		help:       f.Help,
		defaultVal: defaultVal,
	}
}
