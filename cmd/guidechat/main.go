// Command guidechat is a terminal chat surface over the conversation core:
// list the built-in points of interest, open one, and talk to the guide
// with text and attached images.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/virtualgoa/guidechat"
	"github.com/virtualgoa/guidechat/catalog"
)

type config struct {
	APIKey         string        `envconfig:"API_KEY" required:"true"`
	Model          string        `envconfig:"MODEL"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT"`
}

var rootCmd = &cobra.Command{
	Use:   "guidechat",
	Short: "Chat with an AI guide about Old Goa's monuments",
}

func main() {
	subjectsCmd := &cobra.Command{
		Use:   "subjects",
		Short: "List the points of interest",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range guidechat.Subjects() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s — %s\n", s.ID, s.Name, s.ShortDescription)
			}
			return nil
		},
	}
	rootCmd.AddCommand(subjectsCmd)

	chatCmd := &cobra.Command{
		Use:   "chat <subject-id>",
		Short: "Open a subject and start a chat session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), args[0], cmd.OutOrStdout())
		},
	}
	rootCmd.AddCommand(chatCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runChat(ctx context.Context, subjectID string, out io.Writer) error {
	var cfg config
	if err := envconfig.Process("GUIDECHAT", &cfg); err != nil {
		return fmt.Errorf("config: %w (set GUIDECHAT_API_KEY)", err)
	}

	subject, ok := catalog.ByID(subjectID)
	if !ok {
		return fmt.Errorf("unknown subject %q (see `guidechat subjects`)", subjectID)
	}

	var opts []guidechat.Option
	if cfg.Model != "" {
		opts = append(opts, guidechat.WithModel(cfg.Model))
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, guidechat.WithRequestTimeout(cfg.RequestTimeout))
	}
	client, err := guidechat.New(ctx, cfg.APIKey, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Open(subject); err != nil {
		return err
	}
	printed := printNew(out, client, 0)
	fmt.Fprintln(out, "(type a question, /image <path> to attach, /clear to drop the attachment, /quit to exit)")

	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "/quit":
			return nil
		case line == "/clear":
			client.ClearAttachment()
			continue
		case strings.HasPrefix(line, "/image "):
			path := strings.TrimSpace(strings.TrimPrefix(line, "/image "))
			if err := attachFile(client, path); err != nil {
				fmt.Fprintf(out, "attach failed: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "attached %s (sent with your next message)\n", path)
			continue
		case line == "":
			if _, ok := client.Attachment(); !ok {
				continue
			}
		}

		if err := client.SendText(ctx, line); err != nil {
			fmt.Fprintf(out, "send failed: %v\n", err)
			continue
		}
		if err := client.AwaitIdle(ctx); err != nil {
			return err
		}
		printed = printNew(out, client, printed)
	}
}

// attachFile stages a local image; the bytes are read lazily at send time.
func attachFile(client *guidechat.Client, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}
	return client.AttachImage(guidechat.Blob{MIME: mimeType, Source: f}, "file://"+path)
}

// printNew renders messages appended since the last call and returns the new
// high-water mark.
func printNew(out io.Writer, client *guidechat.Client, since int) int {
	msgs := client.Messages()
	for _, m := range msgs[since:] {
		label := "guide"
		if m.Role == guidechat.RoleUser {
			label = "you"
		}
		text := m.Text
		if text == "" && m.Audio {
			text = "[Audio Input]"
		}
		if m.ImageURI != "" {
			text = fmt.Sprintf("%s (image: %s)", text, m.ImageURI)
		}
		fmt.Fprintf(out, "%s: %s\n", label, text)
	}
	return len(msgs)
}
