// Command quill is a question-answering CLI grounded in local documents.
package main

import (
	"github.com/tessellate-labs/quill-cli/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
