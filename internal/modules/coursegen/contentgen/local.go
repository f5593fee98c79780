package contentgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/modules/coursegen"
)

// Local renders lesson notes from fixed Markdown sections. No I/O, no randomness.
type Local struct{}

func (Local) GenerateContent(_ context.Context, in LessonInput) (string, error) {
	return RenderLocal(in), nil
}

func RenderLocal(in LessonInput) string {
	topic := strings.TrimSpace(in.Topic)
	title := strings.TrimSpace(in.LessonTitle)
	if title == "" {
		title = topic
	}
	if topic == "" {
		topic = title
	}
	level := in.Level
	if !level.Valid() {
		level = coursegen.LevelBeginner
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	b.WriteString("## Introduction\n\n")
	fmt.Fprintf(&b, "Welcome to this lesson on **%s**, part of your study of %s. ", title, topic)
	fmt.Fprintf(&b, "It is written for %s learners and builds the understanding you need before moving on to the next lesson.\n\n", strings.ToLower(string(level)))

	b.WriteString("## Key Concepts\n\n")
	fmt.Fprintf(&b, "- **Definition**: what %s means in the context of %s.\n", title, topic)
	fmt.Fprintf(&b, "- **Purpose**: the problems %s helps you solve.\n", title)
	fmt.Fprintf(&b, "- **Building blocks**: the smaller ideas %s is made of and how they fit together.\n", title)
	fmt.Fprintf(&b, "- **Connections**: how %s relates to the rest of %s.\n\n", title, topic)

	b.WriteString("## Detailed Explanation\n\n")
	b.WriteString("### Historical Context\n\n")
	fmt.Fprintf(&b, "The ideas behind %s grew out of practical needs within %s. Knowing how they developed explains many of the conventions you will see today.\n\n", title, topic)
	b.WriteString("### Practical Applications\n\n")
	fmt.Fprintf(&b, "%s is applied whenever practitioners of %s need reliable, repeatable results. Try to identify one situation from your own experience where it would help.\n\n", title, topic)
	b.WriteString("### Common Misconceptions\n\n")
	fmt.Fprintf(&b, "- Treating %s as a fixed recipe instead of a set of principles.\n", title)
	fmt.Fprintf(&b, "- Assuming %s only matters for experts; the fundamentals apply at every level.\n", title)
	b.WriteString("- Skipping practice: reading about a concept is not the same as being able to use it.\n\n")

	b.WriteString("## Best Practices\n\n")
	fmt.Fprintf(&b, "1. Start with small, concrete examples of %s before generalizing.\n", title)
	b.WriteString("2. Check your understanding by explaining each concept in your own words.\n")
	fmt.Fprintf(&b, "3. Practice regularly and review mistakes; they show where your model of %s is incomplete.\n", topic)
	b.WriteString("4. Keep notes of patterns you discover so you can reuse them later.\n\n")

	b.WriteString("## Advanced Considerations\n\n")
	switch level {
	case coursegen.LevelAdvanced:
		fmt.Fprintf(&b, "At an advanced level, examine the trade-offs and edge cases of %s: where it breaks down, how it scales and how experts adapt it to unusual constraints in %s.\n\n", title, topic)
	case coursegen.LevelIntermediate:
		fmt.Fprintf(&b, "At the intermediate level, combine %s with other techniques you know from %s and compare alternative approaches on the same problem.\n\n", title, topic)
	default:
		fmt.Fprintf(&b, "As a beginner, focus on a clear grasp of the basics of %s. Advanced variations will make much more sense once the fundamentals are solid.\n\n", title)
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "This lesson introduced %s: its key concepts, background, applications, common misconceptions and best practices. Review the key concepts above, then continue with the next lesson of your %s course.\n", title, topic)
	return b.String()
}
