package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/logger"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Answers a question grounded in the indexed pages, citing the
files and page numbers the answer draws on.

With a question argument, answers once and exits. Without one, on an
interactive terminal, starts a conversation where each question is
re-grounded against the index.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if len(args) == 1 {
		return askOnce(cmd, args[0])
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("no question given and stdin is not a terminal")
	}

	return askLoop(cmd)
}

func askOnce(cmd *cobra.Command, question string) error {
	result, err := chatService.Ask(cmd.Context(), question, nil)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printAnswer(cmd, result)
	return nil
}

// askLoop runs an interactive conversation. History lives here for the
// session only; each question is re-grounded against the index.
func askLoop(cmd *cobra.Command) error {
	sessionID := uuid.NewString()
	logger.Debug("chat session %s started", sessionID)

	cmd.Println("Ask about your documents. Type 'exit' or press Ctrl-D to quit.")
	cmd.Println()

	var history []domain.ConversationTurn
	scanner := bufio.NewScanner(os.Stdin)

	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		result, err := chatService.Ask(cmd.Context(), question, history)
		if err != nil {
			cmd.Printf("Error: %v\n\n", err)
			continue
		}

		printAnswer(cmd, result)

		history = append(history,
			domain.ConversationTurn{Role: domain.RoleUser, Content: question},
			domain.ConversationTurn{Role: domain.RoleAssistant, Content: result.Answer},
		)
	}

	logger.Debug("chat session %s ended after %d turns", sessionID, len(history)/2)
	return scanner.Err()
}

func printAnswer(cmd *cobra.Command, result *domain.ChatResult) {
	cmd.Println(result.Answer)

	if len(result.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range result.Sources {
			cmd.Printf("  - %s\n", src)
		}
	}
	cmd.Println()
}
