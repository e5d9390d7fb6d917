package obfuscation

import (
	"encoding/base64"
	"regexp"
	"strings"
	"sync"

	crypt "github.com/estafette/estafette-ci-crypt"
	"github.com/pkg/errors"
)

const maxLengthToSkipObfuscation = 3

var envelopeRegex = regexp.MustCompile(`estafette\.secret\(([a-zA-Z0-9.=_-]+)\)`)

// Client decrypts tokens handed to the step and hides them from the logs
//go:generate mockgen -package=obfuscation -destination ./mock.go -source=client.go
type Client interface {
	RevealSecret(value string) (string, error)
	CollectSecrets(values ...string)
	Obfuscate(input string) string
	ObfuscateSecrets(input string) string
}

// NewClient returns a new Client; secretHelper can be nil if no decryption key is available, pipeline is matched against the allow list of restricted secrets
func NewClient(secretHelper crypt.SecretHelper, pipeline string) (Client, error) {
	return &client{
		secretHelper: secretHelper,
		pipeline:     pipeline,
		replacer:     strings.NewReplacer(),
	}, nil
}

type client struct {
	secretHelper    crypt.SecretHelper
	pipeline        string
	replacerStrings []string
	replacer        *strings.Replacer
	mutex           sync.RWMutex
}

// RevealSecret decrypts any estafette.secret(...) envelopes in value and registers both forms for obfuscation
func (ob *client) RevealSecret(value string) (string, error) {

	if !envelopeRegex.MatchString(value) {
		ob.CollectSecrets(value)
		return value, nil
	}

	if ob.secretHelper == nil {
		return "", errors.New("Value contains an encrypted secret but no decryption key is configured")
	}

	decrypted, err := ob.secretHelper.DecryptAllEnvelopes(value, ob.pipeline)
	if err != nil {
		return "", errors.Wrapf(err, "Failed decrypting secret for pipeline %v", ob.pipeline)
	}

	ob.CollectSecrets(value, decrypted)

	return decrypted, nil
}

func (ob *client) CollectSecrets(values ...string) {

	ob.mutex.Lock()
	defer ob.mutex.Unlock()

	ob.replacerStrings = append(ob.replacerStrings, ob.getReplacerStrings(values)...)

	// replace all secret values with obfuscated string
	ob.replacer = strings.NewReplacer(ob.replacerStrings...)
}

func (ob *client) getReplacerStrings(values []string) (replacerStrings []string) {

	replacerStrings = []string{}

	for _, v := range values {
		valueLines := strings.Split(v, "\n")
		for _, l := range valueLines {
			if len(l) > maxLengthToSkipObfuscation {
				replacerStrings = append(replacerStrings, l, "***")
			}
		}

		// if value looks like base64 decode it
		decodedValue, err := base64.StdEncoding.DecodeString(v)
		if err == nil {
			for _, l := range strings.Split(string(decodedValue), "\n") {
				if len(l) > maxLengthToSkipObfuscation {
					replacerStrings = append(replacerStrings, l, "***")
				}
			}
		}
	}

	return replacerStrings
}

func (ob *client) Obfuscate(input string) string {

	ob.mutex.RLock()
	defer ob.mutex.RUnlock()

	return ob.ObfuscateSecrets(ob.replacer.Replace(input))
}

func (ob *client) ObfuscateSecrets(input string) string {
	return envelopeRegex.ReplaceAllString(input, "***")
}
