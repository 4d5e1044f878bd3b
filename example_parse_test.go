package sparkblocks_test

import (
	"fmt"
	"strings"

	sparkblocks "github.com/sparktype-project/sparkblocks"
)

func ExampleEngine_Parse() {
	engine := sparkblocks.Default()

	doc := strings.Join([]string{
		"```block:content",
		"type: core:heading",
		"id: title",
		"content:",
		"    text: Releases",
		"```",
		"",
		"```block:content",
		"type: core:paragraph",
		"id: intro",
		"content:",
		"    text: What shipped this month.",
		"```",
	}, "\n")

	for _, b := range engine.Parse(doc) {
		fmt.Printf("%s %s %q\n", b.ID, b.Type, b.Content["text"])
	}

	// Output:
	// title core:heading "Releases"
	// intro core:paragraph "What shipped this month."
}
