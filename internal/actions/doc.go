// Package actions provides the logic behind each st command.
//
// Each action corresponds to a command (init, track, submit, ...) and
// drives the engine, git and github packages through a runtime.Context.
// Actions mutate the loaded store in memory and save it once the command
// has done its work.
package actions
