package extension

import (
	"fmt"
	"io"
	"os"

	"github.com/estafette/estafette-extension-image-record/clients/obfuscation"
	"github.com/logrusorgru/aurora"
	"github.com/rs/zerolog/log"
)

// FatalHandler has methods to shut down the extension after a fatal error
type FatalHandler interface {
	HandleFatal(error, string)
}

type fatalHandler struct {
	obfuscationClient obfuscation.Client
	output            io.Writer
	exit              func(int)
}

// NewFatalHandler returns a new FatalHandler that hides collected secrets in the reported error
func NewFatalHandler(obfuscationClient obfuscation.Client) FatalHandler {
	return &fatalHandler{
		obfuscationClient: obfuscationClient,
		output:            os.Stderr,
		exit:              os.Exit,
	}
}

func (fh *fatalHandler) HandleFatal(err error, message string) {

	reason := message
	if err != nil {
		reason = err.Error()
	}
	if fh.obfuscationClient != nil {
		reason = fh.obfuscationClient.Obfuscate(reason)
	}

	log.Error().Str("reason", reason).Msg(message)
	fmt.Fprintf(fh.output, "%v %v\n", aurora.Red("Failed:"), reason)

	fh.exit(1)
}
