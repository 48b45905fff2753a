// Package intent turns a free-text chat message into a classified intent with
// extracted task fields. Matching is intentionally naive case-insensitive
// substring containment, not word-boundary matching, so rule order carries all
// the precedence; the tables below are the single source of truth for it.
package intent

import (
	"regexp"
	"strings"

	"github.com/antoniostano/taskdeck/internal/tasks"
)

type Kind string

const (
	KindCreateTask Kind = "create_task"
	KindListTasks  Kind = "list_tasks"
	KindLearnReact Kind = "learn_react"
	KindGreeting   Kind = "greeting"
	KindFallback   Kind = "fallback"
)

// Intent is the classification result. Title, Priority and Category are only
// populated for KindCreateTask; an empty Title means extraction failed and the
// caller should ask for clarification instead of creating a task.
type Intent struct {
	Kind     Kind
	Title    string
	Priority tasks.Priority
	Category string
}

type classificationRule struct {
	kind     Kind
	keywords []string
}

// First matching rule wins; rules are checked top to bottom.
var classificationRules = []classificationRule{
	{KindCreateTask, []string{
		"create", "make", "add", "new task", "task to", "reminder to",
		"need to", "should", "todo", "do:", "task:", "remind me to",
	}},
	{KindListTasks, []string{
		"show", "list", "see my tasks", "what tasks", "my todo",
		"tasks do i have", "what do i need to do",
	}},
	{KindLearnReact, []string{
		"learn react", "react js", "react.js", "reactjs", "react",
	}},
	{KindGreeting, []string{
		"hi", "hello", "hey", "good morning", "good afternoon",
	}},
}

// Captures stop at the first period or end of string.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)task to\s+([^.]+)`),
	regexp.MustCompile(`(?i)create\s+(?:a\s+)?(?:task\s+)?(?:to\s+)?([^.]+)`),
	regexp.MustCompile(`(?i)make\s+(?:a\s+)?(?:task\s+)?(?:to\s+)?([^.]+)`),
	regexp.MustCompile(`(?i)add\s+(?:a\s+)?(?:task\s+)?(?:to\s+)?([^.]+)`),
	regexp.MustCompile(`(?i)remind me to\s+([^.]+)`),
	regexp.MustCompile(`(?i)need to\s+([^.]+)`),
	regexp.MustCompile(`(?i)should\s+([^.]+)`),
}

var leadingPhrases = []string{"create a task", "make a task", "add a task", "new task", "task"}

var (
	highPriorityKeywords = []string{"urgent", "important", "asap", "high priority"}
	lowPriorityKeywords  = []string{"low priority", "when i have time", "eventually"}
)

type categoryRule struct {
	category string
	keywords []string
}

// First matching set wins, in this order.
var categoryRules = []categoryRule{
	{"development", []string{
		"code", "coding", "programming", "develop", "debug", "deploy",
		"bug", "api", "frontend", "backend", "react", "javascript", "typescript",
	}},
	{"learning", []string{"learn", "study", "course", "tutorial", "practice", "read"}},
	{"work", []string{"work", "meeting", "client", "report", "presentation", "email", "deadline"}},
	{"personal", []string{"personal", "home", "family", "buy", "shop", "groceries", "doctor", "gym"}},
}

// Classify is a pure function over the message text.
func Classify(message string) Intent {
	lower := strings.ToLower(strings.TrimSpace(message))

	for _, rule := range classificationRules {
		if containsAny(lower, rule.keywords) {
			if rule.kind == KindCreateTask {
				return Intent{
					Kind:     KindCreateTask,
					Title:    extractTitle(message),
					Priority: inferPriority(lower),
					Category: inferCategory(lower),
				}
			}
			return Intent{Kind: rule.kind}
		}
	}
	return Intent{Kind: KindFallback}
}

func containsAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

func extractTitle(message string) string {
	trimmed := strings.TrimSpace(message)

	for _, pattern := range titlePatterns {
		m := pattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		// A capture that is nothing but filler ("create a task") counts as a
		// miss so the caller ends up asking for clarification.
		if title := cleanTitle(stripLeadingFiller(m[1])); title != "" {
			return title
		}
	}

	// No pattern hit: strip a known leading phrase and a following "to",
	// otherwise take the whole message verbatim.
	lower := strings.ToLower(trimmed)
	for _, phrase := range leadingPhrases {
		if strings.HasPrefix(lower, phrase) {
			rest := strings.TrimSpace(trimmed[len(phrase):])
			restLower := strings.ToLower(rest)
			if restLower == "to" {
				rest = ""
			} else if strings.HasPrefix(restLower, "to ") {
				rest = strings.TrimSpace(rest[3:])
			}
			return cleanTitle(rest)
		}
	}
	return cleanTitle(trimmed)
}

func stripLeadingFiller(s string) string {
	for {
		s = strings.TrimSpace(s)
		lower := strings.ToLower(s)
		switch lower {
		case "a", "task", "to":
			return ""
		}
		stripped := false
		for _, filler := range []string{"a ", "task ", "to "} {
			if strings.HasPrefix(lower, filler) {
				s = s[len(filler):]
				stripped = true
				break
			}
		}
		if !stripped {
			return s
		}
	}
}

func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.TrimRight(title, ".,!? ")
	return strings.TrimSpace(title)
}

func inferPriority(lower string) tasks.Priority {
	if containsAny(lower, highPriorityKeywords) {
		return tasks.PriorityHigh
	}
	if containsAny(lower, lowPriorityKeywords) {
		return tasks.PriorityLow
	}
	return tasks.PriorityMedium
}

func inferCategory(lower string) string {
	for _, rule := range categoryRules {
		if containsAny(lower, rule.keywords) {
			return rule.category
		}
	}
	return ""
}
