package cmd

import (
	"os"
	"path/filepath"

	"velac/build"
	"velac/mods"
	"velac/report"

	"github.com/ComedicChimera/olive"
)

// frontend is the parsing collaborator linked into this binary; nil until a
// front end registers itself.
var frontend build.Frontend

// RegisterFrontend links a front end into the driver.
func RegisterFrontend(fe build.Frontend) {
	frontend = fe
}

// Execute runs the main `velac` application.
func Execute() {
	// Set up the argument parser and all its extended commands and arguments.
	cli := olive.NewCLI("velac", "velac is a tool for checking Vela projects", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	checkCmd := cli.AddSubcommand("check", "type-check source code and report errors", true)
	checkCmd.AddPrimaryArg("module-path", "the path to the module to check", true)
	checkCmd.AddStringArg("profile", "p", "the name of the profile to check with", false)

	cli.AddSubcommand("version", "print the Vela version", false)

	// Run the argument parser.
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.InitReporter(report.LogLevelError)
		report.ReportStdError("velac", err)
		return
	}

	// Process the inputed command line.
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "check":
		execCheckCommand(subResult, result.Arguments["loglevel"].(string))
	case "version":
		report.InitReporter(report.LogLevelVerbose)
		report.ReportCompileHeader("none", false)
	}
}

// logLevels maps the loglevel selector values to reporter log levels.
var logLevels = map[string]int{
	"silent":  report.LogLevelSilent,
	"error":   report.LogLevelError,
	"warn":    report.LogLevelWarn,
	"verbose": report.LogLevelVerbose,
}

// execCheckCommand executes the check subcommand and handles all errors.
func execCheckCommand(result *olive.ArgParseResult, loglevel string) {
	report.InitReporter(logLevels[loglevel])

	// Extract CLI data.
	moduleRelPath, _ := result.PrimaryArg()

	modulePath, err := filepath.Abs(moduleRelPath)
	if err != nil {
		report.ReportStdError("velac", err)
		return
	}

	profArgVal, ok := result.Arguments["profile"]
	selectedProfile := ""
	if ok {
		selectedProfile = profArgVal.(string)
	}

	// Attempt to load the module.
	mod, profile, err := mods.LoadModule(modulePath, selectedProfile)
	if err != nil {
		report.ReportStdError("velac", err)
		return
	}

	// Check the module.
	c := build.NewCompiler(mod, profile, frontend)
	if !c.Check() {
		os.Exit(1)
	}
}
