package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/taskline/taskline/internal/config"
	"github.com/taskline/taskline/internal/core"
	"github.com/taskline/taskline/internal/logger"
	"github.com/taskline/taskline/internal/provider"
	"github.com/taskline/taskline/internal/session"
	"github.com/taskline/taskline/internal/store"
)

func main() {
	// Basic env check (SDK also reads API key)
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		fmt.Println("Missing ANTHROPIC_API_KEY; export it before running.")
		os.Exit(1)
	}

	cfg := config.Load()
	log := logger.NewLogger(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := store.Migrate(db); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	st, err := store.New(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	model := provider.DefaultModel
	if cfg.Model != "" {
		model = anthropic.Model(cfg.Model)
	}
	svc := session.NewService(st, provider.NewAnthropicClient(), model, cfg.AgentTimeout, log)

	if err := svc.Create(cfg.ConversationID, cfg.Title); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	printHistory(svc, cfg.ConversationID)
	fmt.Printf("Conversation %s, speaking as You (/help for commands)\n", cfg.ConversationID)

	scanner := bufio.NewScanner(os.Stdin)
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

	role := core.RoleYou
outer:
	for {
		fmt.Printf("\u001b[94m%s\u001b[0m: ", role)
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case line, ok = <-inputCh:
			if !ok {
				break outer
			}
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			break outer
		case line == "/help":
			printHelp()
		case strings.HasPrefix(line, "/as "):
			role = core.Role(strings.TrimSpace(strings.TrimPrefix(line, "/as ")))
			fmt.Printf("Now speaking as %s\n", role)
		case line == "/tasks":
			printTasks(svc, cfg.ConversationID)
		case line == "/delete":
			if err := svc.Delete(cfg.ConversationID); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			fmt.Printf("Deleted conversation %s; starting fresh.\n", cfg.ConversationID)
			if err := svc.Create(cfg.ConversationID, cfg.Title); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				break outer
			}
		default:
			reply, err := svc.Send(ctx, cfg.ConversationID, role, line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			fmt.Printf("\u001b[93mAgent\u001b[0m: %s\n", reply)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
}

func printHelp() {
	fmt.Print(`Commands:
  /as <role>   Speak as a different participant (e.g. /as Employer)
  /tasks       List the conversation's tasks
  /delete      Delete the conversation and start fresh
  /quit        Exit
Anything else is sent to the shared chat and handled by the agent.
`)
}

func printHistory(svc *session.Service, conversationID string) {
	msgs, err := svc.ListMessages(conversationID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load history: %v\n", err)
		return
	}
	for _, m := range msgs {
		fmt.Printf("%s: %s\n", m.Sender, m.Content)
	}
}

func printTasks(svc *session.Service, conversationID string) {
	tasks, err := svc.ListTasks(conversationID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks yet.")
		return
	}
	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = *t.DueDate
		}
		fmt.Printf("#%d  %-30s  %-12s  %-12s  due %s\n", t.ID, t.Title, t.AssignedTo, t.Status, due)
	}
}
