package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"studyhub_backend/internal/searchclient"

	"github.com/spf13/cobra"
)

// --- login ---

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print an access token",
	Long: `Log in with email and password and print the access token.

Examples:
  studycli login --email ada@example.com --password secret
  export STUDYHUB_TOKEN=$(studycli login --email ada@example.com --password secret)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" || password == "" {
			return fmt.Errorf("--email and --password are required")
		}

		client := newAPIClient()
		resp, err := client.post(cmd.Context(), "/api/v1/auth/login", map[string]string{
			"email":    email,
			"password": password,
		})
		if err != nil {
			return err
		}

		var result struct {
			User struct {
				Name string `json:"name"`
			} `json:"user"`
			Token string `json:"token"`
		}
		if err := decodeEnvelope(resp, &result); err != nil {
			return err
		}

		printSuccess(cmd.ErrOrStderr(), "Logged in as %s", result.User.Name)
		fmt.Fprintln(cmd.OutOrStdout(), result.Token)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")
}

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search documents, quizzes and flashcards",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if len([]rune(query)) < 2 {
			return fmt.Errorf("query must be at least 2 characters")
		}

		search := searchclient.CachedSearch{
			Cache:   searchclient.NewCache(),
			Fetcher: newFetcher(),
		}
		results, _, err := search.Search(cmd.Context(), query)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		items := results.Flatten()
		if len(items) == 0 {
			printWarning(out, "No results found for %q", query)
			return nil
		}
		renderItems(out, items, -1)
		return nil
	},
}

// --- browse ---

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive search box driven by lines on stdin",
	Long: `Interactive search box. Each input line is one event:

  any text   replace the query (debounced search)
  :down      highlight the next result
  :up        highlight the previous result
  :enter     open the highlighted result
  :esc       close the result list
  :focus     reopen the result list
  :quit      exit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		debounce, _ := cmd.Flags().GetDuration("debounce")
		out := cmd.OutOrStdout()

		ctrl := searchclient.NewController(searchclient.Options{
			Fetcher:  newFetcher(),
			Debounce: debounce,
			Context:  cmd.Context(),
			Navigate: func(target string) {
				printStep(out, "open %s", target)
			},
		})
		return runBrowse(cmd.Context(), cmd.InOrStdin(), out, ctrl, debounce)
	},
}

func init() {
	browseCmd.Flags().Duration("debounce", searchclient.DefaultDebounce, "delay before a typed query is sent")
}

func runBrowse(ctx context.Context, in io.Reader, out io.Writer, ctrl *searchclient.Controller, debounce time.Duration) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case ":quit", ":q":
			return nil
		case ":down":
			ctrl.ArrowDown()
		case ":up":
			ctrl.ArrowUp()
		case ":enter":
			if _, ok := ctrl.Enter(); !ok {
				printWarning(out, "nothing highlighted")
			}
		case ":esc":
			ctrl.Escape()
		case ":focus":
			ctrl.Focus()
		default:
			ctrl.Input(line)
			if err := waitSettled(ctx, ctrl, debounce+20*time.Second); err != nil {
				return err
			}
		}
		renderView(out, ctrl.View())
	}
	return scanner.Err()
}

// waitSettled blocks until the controller leaves Pending.
func waitSettled(ctx context.Context, ctrl *searchclient.Controller, timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()

	for ctrl.View().State == searchclient.Pending {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("search timed out after %s", timeout)
		case <-tick.C:
		}
	}
	return nil
}

func newFetcher() *searchclient.HTTPFetcher {
	c := newAPIClient()
	return searchclient.NewHTTPFetcher(c.baseURL, c.token, c.httpClient)
}

func renderView(w io.Writer, v searchclient.View) {
	switch {
	case !v.Open:
		fmt.Fprintln(w, colorize(colorBold, "["+v.State.String()+"]"))
	case v.EmptyMessage != "":
		printWarning(w, "%s", v.EmptyMessage)
	default:
		renderItems(w, v.Items, v.Highlight)
	}
}

func renderItems(w io.Writer, items []searchclient.Item, highlight int) {
	for i, item := range items {
		marker := "  "
		if i == highlight {
			marker = colorize(colorCyan, "> ")
		}
		fmt.Fprintf(w, "%s%-9s %s · %s  %s\n",
			marker,
			"["+item.Category+"]",
			colorize(colorBold, item.Title),
			item.Subtitle,
			searchclient.Target(item),
		)
	}
}
