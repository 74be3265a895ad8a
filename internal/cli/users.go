package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/martijn/quill/internal/core/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
	Long:  "Manage user accounts for the blog",
}

var usersAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Add a new user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		// Prompt for password
		prompt := newPasswordPrompt(cmd)
		password, err := prompt.read("Enter password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		confirmPassword, err := prompt.read("Confirm password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		if password != confirmPassword {
			return fmt.Errorf("passwords do not match")
		}

		gateway := services.DB.Gateway()
		defer gateway.Close()

		if err := services.Credentials.Register(cmd.Context(), gateway, username, password); err != nil {
			if message, ok := service.UserMessage(err); ok {
				return errors.New(message)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "User '%s' created successfully\n", username)
		return nil
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		gateway := services.DB.Gateway()
		defer gateway.Close()

		users, err := gateway.Users().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(users) == 0 {
			fmt.Fprintln(out, "No users found")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME")
		for _, user := range users {
			fmt.Fprintf(w, "%d\t%s\n", user.ID, user.Username)
		}
		w.Flush()

		return nil
	},
}

// passwordPrompt reads without echo from a terminal and falls back to
// line-based input otherwise, e.g. when stdin is piped.
type passwordPrompt struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

func newPasswordPrompt(cmd *cobra.Command) *passwordPrompt {
	return &passwordPrompt{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
}

func (p *passwordPrompt) read(label string) (string, error) {
	fmt.Fprint(p.out, label)

	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		return string(password), err
	}

	if p.reader == nil {
		p.reader = bufio.NewReader(p.in)
	}
	line, err := p.reader.ReadString('\n')
	fmt.Fprintln(p.out)
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersAddCmd)
	usersCmd.AddCommand(usersListCmd)
}
