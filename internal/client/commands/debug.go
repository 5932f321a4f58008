// FILE: internal/client/commands/debug.go
package commands

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"konane/internal/client/api"
)

func (r *Registry) registerDebugCommands() {
	for _, cmd := range []*Command{
		{
			Name:        "health",
			ShortName:   ".",
			Description: "Check server health",
			Usage:       "health",
			Handler:     healthHandler,
		},
		{
			Name:        "url",
			ShortName:   "/",
			Description: "Set API base URL",
			Usage:       "url [apiUrl]",
			Handler:     urlHandler,
		},
		{
			Name:        "raw",
			ShortName:   ":",
			Description: "Send raw API request",
			Usage:       "raw <method> <path> [json-body]",
			Handler:     rawRequestHandler,
		},
		{
			Name:        "clear",
			ShortName:   "-",
			Description: "Clear screen",
			Usage:       "clear",
			Handler:     clearHandler,
		},
	} {
		r.Register(cmd)
	}
}

func healthHandler(s Session, args []string) error {
	c := s.GetClient().(*api.Client)
	resp, err := c.Health()
	if err != nil {
		return err
	}

	infof("Server Health:")
	fmt.Printf("  Status:  %s\n", resp.Status)
	fmt.Printf("  Time:    %s\n", time.Unix(resp.Time, 0).Format("2006-01-02 15:04:05"))
	if resp.Storage != "" {
		fmt.Printf("  Storage: %s\n", resp.Storage)
	}

	return nil
}

func urlHandler(s Session, args []string) error {
	if len(args) == 0 {
		fmt.Printf("Current API URL: %s\n", s.GetAPIBaseURL())
		return nil
	}

	u := args[0]
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "http://" + u
	}

	s.SetAPIBaseURL(u)
	s.GetClient().(*api.Client).SetBaseURL(u)

	infof("API URL set to: %s", u)
	return nil
}

func rawRequestHandler(s Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: raw <method> <path> [json-body]")
	}

	body := ""
	if len(args) > 2 {
		body = strings.Join(args[2:], " ")
	}

	c := s.GetClient().(*api.Client)
	return c.RawRequest(strings.ToUpper(args[0]), args[1], body)
}

func clearHandler(s Session, args []string) error {
	cmd := exec.Command("clear")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}
