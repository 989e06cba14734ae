// Package rules holds the static rule tables of the food chain game:
// employee cards and their training graph, milestones, phases, products,
// campaign kinds, board cell codes and the embedded tile templates.
//
// Everything here is immutable data keyed by closed id sets. Game logic
// lives in the engine package; rules only answers lookups such as
// "what does a burger_cook produce" or "can a kitchen_trainee be trained
// into a burger_chef".
package rules
