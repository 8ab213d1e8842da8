package obfuscation

import (
	"encoding/base64"
	"strings"

	"github.com/cratebuild/cratebuild/api"
)

const maxLengthToSkipObfuscation = 3

// Client hides registry credentials and other sensitive values from tailed logs
//go:generate mockgen -package=obfuscation -destination ./mock.go -source=client.go
type Client interface {
	CollectSecrets(registries []*api.ContainerRegistryCredentials)
	Obfuscate(input string) string
}

// NewClient returns a new obfuscation.Client
func NewClient() (Client, error) {
	return &client{
		replacer: strings.NewReplacer(),
	}, nil
}

type client struct {
	replacer *strings.Replacer
}

func (ob *client) CollectSecrets(registries []*api.ContainerRegistryCredentials) {

	replacerStrings := []string{}

	for _, r := range registries {
		if r == nil {
			continue
		}
		replacerStrings = append(replacerStrings, ob.getReplacerStrings(r.Password)...)
	}

	ob.replacer = strings.NewReplacer(replacerStrings...)
}

func (ob *client) getReplacerStrings(value string) (replacerStrings []string) {

	replacerStrings = []string{}

	if len(value) > maxLengthToSkipObfuscation {
		replacerStrings = append(replacerStrings, value, "***")

		// the base64 form leaks just as readily, through auth headers echoed in errors
		encodedValue := base64.StdEncoding.EncodeToString([]byte(value))
		if len(encodedValue) > maxLengthToSkipObfuscation {
			replacerStrings = append(replacerStrings, encodedValue, "***")
		}
	}

	return replacerStrings
}

func (ob *client) Obfuscate(input string) string {
	return ob.replacer.Replace(input)
}
