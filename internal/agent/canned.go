package agent

const greetingReply = "Hello! I'm your task assistant. I can create and list tasks for you, " +
	"and answer questions about React.js. What would you like to do today?"

const clarificationReply = "I'd be happy to create a task for you! What should it be called? " +
	"Try something like \"add a task to buy groceries\"."

const noTasksReply = "You don't have any tasks yet. Tell me something like " +
	"\"create a task to review the report\" and I'll add it."

const apologyReply = "I'm sorry, something went wrong while handling that. Please try again."

const capabilityReply = `I'm here to help! I can assist with:

- Task management: say "create a task to ..." or "show my tasks"
- React.js learning: ask me about components, hooks, props and state
- General questions: feel free to ask anything

What would you like to explore?`

const reactLearningReply = `# Learning React.js - Getting Started

React is a popular JavaScript library for building user interfaces.

## Core concepts

1. Components - reusable pieces of UI:
   function Welcome(props) { return <h1>Hello, {props.name}!</h1>; }
2. JSX - HTML-like syntax inside JavaScript
3. Props and state - data flowing into a component vs. data it owns
4. Hooks - useState and useEffect for state and side effects in functions

## Next steps

1. Scaffold a project: npx create-react-app my-app
2. Practice useState and useEffect
3. Build small components and wire up event handlers
4. Explore React Router for navigation

Great resources: the official docs at https://react.dev and the tutorial at
https://react.dev/learn.

What specific React topic would you like to dive deeper into?`
