package cmd

import (
	"os"

	"github.com/ThePrior/Navigation/internal/api"
	"github.com/ThePrior/Navigation/internal/secrets"
)

// Swapped in tests.
var (
	openSecretsStore = secrets.OpenDefault
	newSourceFunc    = api.NewSource
	envGet           = os.Getenv
	openSQLiteFunc   = func(path string, lists api.ListNames) (listWriter, error) {
		return api.NewSQLiteSource(path, lists)
	}
	newVerifierFunc = func(site, token string, opts ...api.ClientOption) verifier {
		return api.NewClient(site, token, opts...)
	}
)
