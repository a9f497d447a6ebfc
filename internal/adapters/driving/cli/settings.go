package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// envLLMAPIKey supplies the key when --api-key is omitted.
const envLLMAPIKey = "SERCHA_LLM_API_KEY"

var errNoSettingsService = errors.New("settings service not configured")

var (
	llmProvider string
	llmModel    string
	llmAPIKey   string
	resetAll    bool
)

var settingsCmd = &cobra.Command{
	Use:         "settings",
	Short:       "Manage application settings",
	Long:        `View the current configuration and configure the LLM used for query analysis.`,
	Annotations: map[string]string{annotationBootstrap: bootstrapSettings},
	RunE:        runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current settings",
	Annotations: map[string]string{annotationBootstrap: bootstrapSettings},
	RunE:        runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long: `Configure the LLM provider used to analyse queries.

Without --provider the command asks for each value. Without an LLM,
queries are split into lower-cased keywords instead.`,
	Example: `  sercha-federated settings llm
  sercha-federated settings llm --provider ollama --model llama3.2
  SERCHA_LLM_API_KEY=sk-... sercha-federated settings llm --provider openai`,
	Annotations: map[string]string{annotationBootstrap: bootstrapSettings},
	RunE:        runSettingsLLM,
}

var settingsResetCmd = &cobra.Command{
	Use:         "reset",
	Short:       "Restore default settings",
	Long:        `Restore every setting to its default. The LLM configuration is kept unless --all is given.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationBootstrap: bootstrapSettings},
	RunE:        runSettingsReset,
}

func init() {
	settingsResetCmd.Flags().BoolVar(&resetAll, "all", false, "also clear the LLM provider, model and key")
	settingsLLMCmd.Flags().StringVar(&llmProvider, "provider", "", "provider (ollama, openai, anthropic)")
	settingsLLMCmd.Flags().StringVar(&llmModel, "model", "", "model name (default depends on provider)")
	settingsLLMCmd.Flags().StringVar(&llmAPIKey, "api-key", "", "API key for hosted providers")

	settingsCmd.AddCommand(settingsShowCmd, settingsLLMCmd, settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

// section is one titled block of `settings show` output.
type section struct {
	title string
	rows  [][2]string
}

func (s *section) add(label, value string) {
	s.rows = append(s.rows, [2]string{label, value})
}

func settingsSections(settings *domain.AppSettings) []section {
	llm := section{title: "LLM"}
	if settings.LLM.Provider == "" {
		llm.add("Provider", "(none, keyword analysis)")
	} else {
		llm.add("Provider", settings.LLM.Provider.Description())
		llm.add("Model", settings.LLM.Model)
	}
	if settings.LLM.Provider.IsLocal() {
		llm.add("Base URL", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		key := "(not set)"
		if settings.LLM.APIKey != "" {
			key = maskAPIKey(settings.LLM.APIKey)
		}
		llm.add("API key", key)
	}

	analyzer := section{title: "Analyzer"}
	analyzer.add("Timeout", settings.Analyzer.Timeout.String())
	analyzer.add("Rate", fmt.Sprintf("%g/s (burst %d)", settings.Analyzer.RatePerSecond, settings.Analyzer.Burst))
	analyzer.add("Cache size", strconv.Itoa(settings.Analyzer.CacheSize))

	store := section{title: "Store"}
	store.add("Driver", settings.Store.Driver)
	if settings.Store.DSN != "" {
		store.add("DSN", maskDSN(settings.Store.DSN))
	}

	search := section{title: "Search"}
	search.add("Default limit", strconv.Itoa(settings.Search.DefaultLimit))
	search.add("Max limit", strconv.Itoa(settings.Search.MaxLimit))
	if settings.Search.AdapterTimeout > 0 {
		search.add("Adapter timeout", settings.Search.AdapterTimeout.String())
	}

	server := section{title: "Server"}
	server.add("Address", settings.Server.Addr)

	return []section{llm, analyzer, store, search, server}
}

func writeSections(w io.Writer, sections []section) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range sections {
		fmt.Fprintf(tw, "[%s]\n", s.title)
		for _, row := range s.rows {
			fmt.Fprintf(tw, "  %s:\t%s\n", row[0], row[1])
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if err := writeSections(cmd.OutOrStdout(), settingsSections(settings)); err != nil {
		return err
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'sercha-federated settings llm' to fix configuration issues.")
		return nil
	}
	cmd.Println("Configuration is valid.")
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}

	choice, err := llmChoiceFromFlags()
	if err != nil {
		return err
	}
	if choice.provider == "" {
		p := &prompter{cmd: cmd, reader: bufio.NewReader(cmd.InOrStdin())}
		if choice, err = p.llmChoice(); err != nil {
			return err
		}
	}

	if err := settingsService.SetLLMProvider(choice.provider, choice.model, choice.apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(cmd.Context()); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")
	cmd.Printf("LLM provider configured: %s (%s)\n", choice.provider.Description(), choice.model)
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	defaults := settingsService.GetDefaults()
	if !resetAll {
		defaults.LLM = current.LLM
	}
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Settings restored to defaults.")
	return nil
}

type llmChoice struct {
	provider domain.AIProvider
	model    string
	apiKey   string
}

// llmChoiceFromFlags returns a zero choice when --provider is not set.
func llmChoiceFromFlags() (llmChoice, error) {
	if llmProvider == "" {
		return llmChoice{}, nil
	}
	provider := domain.AIProvider(strings.ToLower(llmProvider))
	if !provider.IsValid() {
		return llmChoice{}, fmt.Errorf("unsupported LLM provider: %s", llmProvider)
	}

	choice := llmChoice{provider: provider, model: llmModel, apiKey: llmAPIKey}
	if choice.model == "" {
		choice.model = domain.DefaultLLMModels()[provider]
	}
	if choice.apiKey == "" {
		choice.apiKey = os.Getenv(envLLMAPIKey)
	}
	if provider.RequiresAPIKey() && choice.apiKey == "" {
		return llmChoice{}, fmt.Errorf("%s requires --api-key or %s", provider, envLLMAPIKey)
	}
	return choice, nil
}

// prompter asks questions on the command's input and output.
type prompter struct {
	cmd    *cobra.Command
	reader *bufio.Reader
}

func (p *prompter) llmChoice() (llmChoice, error) {
	providers := domain.AllLLMProviders()
	p.cmd.Println("Select LLM Provider")
	for i, provider := range providers {
		p.cmd.Printf("  %d. %s\n", i+1, provider.Description())
	}
	provider := providers[parseChoice(p.ask("\nEnter choice", "1"), len(providers), 1)-1]

	choice := llmChoice{
		provider: provider,
		model:    p.ask("Enter model name", domain.DefaultLLMModels()[provider]),
	}
	if provider.RequiresAPIKey() {
		p.cmd.Print("Enter API key: ")
		choice.apiKey = p.secret()
		p.cmd.Println()
		if choice.apiKey == "" {
			return llmChoice{}, errors.New("API key is required for this provider")
		}
	}
	return choice, nil
}

// ask prints "label [def]: " and returns the answer or def when blank.
func (p *prompter) ask(label, def string) string {
	p.cmd.Printf("%s [%s]: ", label, def)
	if answer := readLine(p.reader); answer != "" {
		return answer
	}
	return def
}

// secret reads without echo when input is a terminal, otherwise a plain line.
func (p *prompter) secret() string {
	if f, ok := p.cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if password, err := term.ReadPassword(int(f.Fd())); err == nil {
			return string(password)
		}
	}
	return readLine(p.reader)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// maskDSN hides the password of a URL-style DSN. Key/value DSNs are
// returned unchanged.
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); !ok {
		return dsn
	}
	return u.Redacted()
}
