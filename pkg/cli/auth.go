package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/leadpulse/leadctl/pkg/lead"
	urfave "github.com/urfave/cli/v2"
	"github.com/zalando/go-keyring"
)

const keyringService = appName

var (
	providerSources = []string{
		lead.SourceHunter,
		lead.SourceProxycurl,
		lead.SourcePubMed,
		lead.SourceClearbit,
		lead.SourceCrunchbase,
	}

	authProviderFlag = &urfave.StringFlag{
		Name:     "provider",
		Usage:    fmt.Sprintf("Provider name [%s]", strings.Join(providerSources, ", ")),
		Required: true,
	}

	authKeyFlag = &urfave.StringFlag{
		Name:  "key",
		Usage: "API key to store (omit to delete the stored key)",
	}

	authCmd = &urfave.Command{
		Name:            "auth",
		HideHelpCommand: true,
		Usage:           "Store provider API keys in the OS keychain",
		UsageText: `leadctl auth --provider hunter --key XXXX   # store a key
   leadctl auth --provider hunter               # delete the stored key`,
		Action: cmdAuth,
		Flags: []urfave.Flag{
			authProviderFlag,
			authKeyFlag,
		},
	}
)

func cmdAuth(c *urfave.Context) error {
	provider := c.String(authProviderFlag.Name)
	if !containsString(providerSources, provider) {
		return fmt.Errorf("unknown provider: %s", provider)
	}

	key := c.String(authKeyFlag.Name)
	if key == "" {
		if err := deleteProviderKey(provider); err != nil {
			return fmt.Errorf("deleting key for %s: %w", provider, err)
		}
		fmt.Printf("Key for %s deleted\n", provider)
		return nil
	}

	if err := saveProviderKey(provider, key); err != nil {
		return fmt.Errorf("saving key for %s: %w", provider, err)
	}

	fmt.Printf("Key for %s saved to OS keychain\n", provider)
	return nil
}

func saveProviderKey(provider, key string) error {
	if err := keyring.Set(keyringService, provider, key); err != nil {
		slog.Warn("keychain unavailable, falling back to file", "error", err)
		return saveProviderKeyFile(provider, key)
	}

	// clean up a legacy file if one exists
	os.Remove(providerKeyPath(provider))
	return nil
}

// GetProviderKey returns the stored API key for a provider, trying the OS
// keychain first and falling back to the key file.
func GetProviderKey(provider string) (string, error) {
	key, err := keyring.Get(keyringService, provider)
	if err == nil && key != "" {
		return key, nil
	}

	b, err := os.ReadFile(providerKeyPath(provider))
	if err != nil {
		return "", fmt.Errorf("no key stored for %s: %w", provider, err)
	}
	return strings.TrimSpace(string(b)), nil
}

func deleteProviderKey(provider string) error {
	if err := keyring.Delete(keyringService, provider); err != nil {
		slog.Debug("keychain delete failed", "provider", provider, "error", err)
	}
	if err := os.Remove(providerKeyPath(provider)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func saveProviderKeyFile(provider, key string) error {
	return os.WriteFile(providerKeyPath(provider), []byte(key), 0600)
}

func providerKeyPath(provider string) string {
	return path.Join(getHomeDir(), provider+"_key")
}

func containsString(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
