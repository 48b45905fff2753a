// Package agent answers chat messages: it classifies the intent, drives the
// task service for create/list requests, and falls back to a generative
// backend (or canned content) for everything else. Respond is a terminal
// boundary: no error or panic escapes it.
package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/antoniostano/taskdeck/internal/intent"
	"github.com/antoniostano/taskdeck/internal/tasks"
)

// DefaultChatListLimit bounds how many tasks a chat list request fetches.
const DefaultChatListLimit = 10

// maxListedTasks caps how many tasks the reply spells out.
const maxListedTasks = 5

// Reply is the orchestrator's complete answer to one message.
type Reply struct {
	Text         string
	TasksChanged bool
	Task         *tasks.Task
}

type Orchestrator struct {
	service   *tasks.Service
	backend   Backend
	listLimit int
}

func NewOrchestrator(service *tasks.Service, backend Backend, listLimit int) *Orchestrator {
	if listLimit <= 0 {
		listLimit = DefaultChatListLimit
	}
	if backend == nil {
		backend = DisabledBackend{}
	}
	return &Orchestrator{service: service, backend: backend, listLimit: listLimit}
}

// Respond never fails: internal errors become an apologetic text reply.
func (o *Orchestrator) Respond(ctx context.Context, message string) (reply Reply) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("agent: recovered from panic: %v", r)
			reply = Reply{Text: apologyReply}
		}
	}()

	classified := intent.Classify(message)
	switch classified.Kind {
	case intent.KindCreateTask:
		return o.createTask(ctx, classified)
	case intent.KindListTasks:
		return o.listTasks(ctx)
	case intent.KindLearnReact:
		return Reply{Text: reactLearningReply}
	case intent.KindGreeting:
		return Reply{Text: greetingReply}
	default:
		return o.fallback(ctx, message)
	}
}

func (o *Orchestrator) createTask(ctx context.Context, in intent.Intent) Reply {
	if in.Title == "" {
		return Reply{Text: clarificationReply}
	}

	task, err := o.service.Create(ctx, tasks.CreateRequest{
		Title:    in.Title,
		Priority: in.Priority,
		Category: in.Category,
	})
	if err != nil {
		log.Printf("agent: create task failed: %v", err)
		return Reply{Text: apologyReply}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Done! I've created the task %q.", task.Title)
	if task.Category != "" {
		fmt.Fprintf(&b, " Category: %s.", task.Category)
	}
	if task.Priority != tasks.PriorityMedium {
		fmt.Fprintf(&b, " Priority: %s.", task.Priority)
	}
	return Reply{Text: b.String(), TasksChanged: true, Task: &task}
}

func (o *Orchestrator) listTasks(ctx context.Context) Reply {
	list, err := o.service.List(ctx, tasks.Filter{}, 0, o.listLimit)
	if err != nil {
		log.Printf("agent: list tasks failed: %v", err)
		return Reply{Text: apologyReply}
	}
	if len(list) == 0 {
		return Reply{Text: noTasksReply}
	}

	var b strings.Builder
	b.WriteString("Here are your tasks:\n")
	shown := list
	if len(shown) > maxListedTasks {
		shown = shown[:maxListedTasks]
	}
	for i, task := range shown {
		status := "[ ]"
		if task.Completed {
			status = "[x]"
		}
		fmt.Fprintf(&b, "%d. %s %s", i+1, status, task.Title)
		if task.Priority != tasks.PriorityMedium {
			fmt.Fprintf(&b, " (%s priority)", task.Priority)
		}
		b.WriteString("\n")
	}
	if rest := len(list) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "...and %d more.", rest)
	}
	return Reply{Text: strings.TrimRight(b.String(), "\n")}
}

func (o *Orchestrator) fallback(ctx context.Context, message string) Reply {
	text, err := o.backend.GenerateReply(ctx, message)
	if err != nil {
		return Reply{Text: capabilityReply}
	}
	return Reply{Text: text}
}
