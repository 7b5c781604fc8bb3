package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskledger/internal/client/models"
)

var errUsage = errors.New("usage")

// List prints the cached task view without touching the ledger.
func (a *App) List(ctx context.Context) error {
	printTasks(a.taskService.Tasks())
	return nil
}

// Refresh re-reads the ledger and prints the result.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.ensureLedger(); err != nil {
		return err
	}
	tasks, err := a.taskService.Refresh(ctx)
	if err != nil {
		return err
	}
	printTasks(tasks)
	return nil
}

// Add creates a task from the arguments, prompting when none are given.
func (a *App) Add(ctx context.Context, args []string) error {
	content, err := a.contentFrom(args, "Enter task")
	if err != nil {
		return err
	}
	if err := a.ensureLedger(); err != nil {
		return err
	}
	printlnFn("Submitting task, waiting for confirmation...")
	if err := a.taskService.Add(ctx, content); err != nil {
		return err
	}
	printTasks(a.taskService.Tasks())
	return nil
}

func (a *App) Toggle(ctx context.Context, args []string) error {
	id, err := parseID(args, "toggle <id>")
	if err != nil {
		return err
	}
	if err := a.ensureLedger(); err != nil {
		return err
	}
	if err := a.taskService.Toggle(ctx, id); err != nil {
		return err
	}
	printTasks(a.taskService.Tasks())
	return nil
}

// Edit replaces the content of task id: "edit <id> [new content]".
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID(args, "edit <id> [content]")
	if err != nil {
		return err
	}
	content, err := a.contentFrom(args[1:], "Enter new content")
	if err != nil {
		return err
	}
	if err := a.ensureLedger(); err != nil {
		return err
	}
	if err := a.taskService.Update(ctx, id, content); err != nil {
		return err
	}
	printTasks(a.taskService.Tasks())
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args, "delete <id>")
	if err != nil {
		return err
	}
	if err := a.ensureLedger(); err != nil {
		return err
	}
	if err := a.taskService.Delete(ctx, id); err != nil {
		return err
	}
	printTasks(a.taskService.Tasks())
	return nil
}

func (a *App) contentFrom(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	return getSimpleText(a.reader, prompt, a.out)
}

func parseID(args []string, usage string) (uint64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: bad id %q", errUsage, usage, args[0])
	}
	return id, nil
}

func printTasks(tasks []models.Task) {
	if len(tasks) == 0 {
		printlnFn("No tasks")
		return
	}
	for _, t := range tasks {
		printlnFn(formatTask(t))
	}
}

func formatTask(t models.Task) string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	return fmt.Sprintf("%4d [%s] %s", t.ID, mark, t.Content)
}
