// Package agent connects the tool catalog, the router and the executor to
// an external reasoning engine.
//
// The engine is anything that implements [Reasoner]. For every query the
// [Agent] routes the text, appends the routing guidance to the user message,
// hands the engine the system prompt, the conversation so far, the catalog
// and a call function, and records each tool call the engine makes. The
// final answer is stored in conversation memory and returned together with
// the recorded steps.
package agent
