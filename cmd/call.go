package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/smazurov/m5node/internal/dispatcher"
	"github.com/smazurov/m5node/internal/nats"
	"github.com/spf13/cobra"
)

// errRejected marks a command the node answered with result=false.
var errRejected = errors.New("command rejected")

type caller interface {
	Call(ctx context.Context, operation string, payload []byte) (dispatcher.Response, error)
}

// CreateCallCmd creates the call command.
func CreateCallCmd() *cobra.Command {
	var (
		payload string
		url     string
		node    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "call <operation>",
		Short: "Send one board command to a node over NATS",
		Long: "Sends a request to m5node.<node>.cmd.<operation> and prints the reply.\n" +
			"Exits with status 1 when the node answers result=false.\n\n" +
			"Operations: " + strings.Join(dispatcher.Operations(), ", "),
		Example: `  m5node call set_display_color --json '{"color":"RED"}'
  m5node call set_pwmout --json '{"pin_id":0,"val":128}' --node bench
  m5node call reset_allout`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: dispatcher.Operations(),
		Run: func(c *cobra.Command, args []string) {
			err := callNode(c.Context(), c.OutOrStdout(), url, node, args[0], payload, timeout)
			if err == nil {
				return
			}
			if !errors.Is(err, errRejected) {
				fmt.Fprintln(c.ErrOrStderr(), "Error:", err)
			}
			os.Exit(1)
		},
	}

	cmd.Flags().StringVar(&payload, "json", "", "Request body as JSON (omit for reset_m5 and reset_allout)")
	cmd.Flags().StringVar(&url, "url", "nats://127.0.0.1:4222", "NATS server URL")
	cmd.Flags().StringVar(&node, "node", nats.DefaultNode, "Target node name")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "How long to wait for the reply")

	return cmd
}

// callNode connects to url, runs one call against node and releases the
// connection before returning.
func callNode(ctx context.Context, out io.Writer, url, node, operation, payload string, timeout time.Duration) error {
	requester, err := nats.NewRequester(url, node)
	if err != nil {
		return err
	}
	defer requester.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return runCall(ctx, out, requester, operation, payload)
}

// runCall sends one request and prints the reply as JSON.
func runCall(ctx context.Context, out io.Writer, c caller, operation, payload string) error {
	payload = strings.TrimSpace(payload)
	if payload != "" && !json.Valid([]byte(payload)) {
		return fmt.Errorf("--json is not valid JSON: %s", payload)
	}

	resp, err := c.Call(ctx, operation, []byte(payload))
	if err != nil {
		return err
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))

	if !resp.Result {
		return errRejected
	}
	return nil
}
