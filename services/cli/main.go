// Command-line session client for the auth service: signup, login, logout
// and whoami against a running server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fittrack/internal/client"
)

func main() {
	server := flag.String("server", envOr("FITTRACK_SERVER", "http://localhost:5000"), "auth server base URL")
	sessionPath := flag.String("session", "", "session file path (default: per-user config dir)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	path := *sessionPath
	if path == "" {
		var err error
		path, err = client.DefaultSessionPath()
		if err != nil {
			fatalf("session path: %v", err)
		}
	}
	session, err := client.OpenSessionFile(path)
	if err != nil {
		fatalf("open session: %v", err)
	}
	c := client.New(*server, session)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch cmd := flag.Arg(0); cmd {
	case "signup":
		runSignup(ctx, c, flag.Args()[1:])
	case "login":
		runLogin(ctx, c, flag.Args()[1:])
	case "logout":
		runLogout(ctx, c)
	case "whoami":
		runWhoami(ctx, c)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
}

func runSignup(ctx context.Context, c *client.Client, args []string) {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)
	if *name == "" || *email == "" || *password == "" {
		fatalf("signup: -name, -email and -password are required")
	}
	msg, err := c.SignUp(ctx, *name, *email, *password)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Println(msg)
}

func runLogin(ctx context.Context, c *client.Client, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)
	if *email == "" || *password == "" {
		fatalf("login: -email and -password are required")
	}
	user, err := c.Login(ctx, *email, *password)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Logged in as %s <%s>\n", user.Name, user.Email)
}

func runLogout(ctx context.Context, c *client.Client) {
	err := c.Logout(ctx)
	if errors.Is(err, client.ErrNotLoggedIn) {
		fmt.Println("Not logged in")
		return
	}
	if err != nil {
		// Local storage is already cleared; report the server's verdict.
		fatalf("%v", err)
	}
	fmt.Println("Logged out")
}

func runWhoami(ctx context.Context, c *client.Client) {
	if !c.LoggedIn() {
		fmt.Println("Not logged in")
		return
	}
	user, err := c.Protected(ctx)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: cli [flags] <command>

Commands:
  signup  -name NAME -email EMAIL -password PASSWORD
  login   -email EMAIL -password PASSWORD
  logout
  whoami

Flags:
`)
	flag.PrintDefaults()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatalf(format string, v ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", v...)
	os.Exit(1)
}
