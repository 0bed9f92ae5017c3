// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"slices"

	"github.com/charmbracelet/huh"

	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/generator"
	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/installer"
)

// Prompter asks the wizard's questions.
type Prompter interface {
	// Answers runs the question flow.
	Answers(ctx context.Context) (generator.Answers, error)

	// Install asks whether to install deps now and with which manager.
	// defaultManager preselects the manager.
	Install(ctx context.Context, deps []string, defaultManager string) (bool, string, error)
}

// huhPrompter asks questions with huh forms on the terminal.
type huhPrompter struct {
	accessible bool
}

var errNoLanguage = errors.New("select at least one language")

// Answers asks the language questions first, then the JavaScript and
// Markdown follow-ups only when those languages were chosen.
func (p *huhPrompter) Answers(ctx context.Context) (generator.Answers, error) {
	var a generator.Answers
	a.Languages = []generator.Language{generator.LangJavaScript}
	a.Purpose = generator.PurposeProblems

	langForm := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[generator.Language]().
			Title("What do you want to lint?").
			Options(
				huh.NewOption("JavaScript", generator.LangJavaScript).Selected(true),
				huh.NewOption("JSON", generator.LangJSON),
				huh.NewOption("JSON with comments", generator.LangJSONC),
				huh.NewOption("JSON5", generator.LangJSON5),
				huh.NewOption("Markdown", generator.LangMarkdown),
				huh.NewOption("CSS", generator.LangCSS),
			).
			Validate(func(langs []generator.Language) error {
				if len(langs) == 0 {
					return errNoLanguage
				}
				return nil
			}).
			Value(&a.Languages),
		huh.NewSelect[generator.Purpose]().
			Title("How would you like to use ESLint?").
			Options(
				huh.NewOption("To check syntax only", generator.PurposeSyntax),
				huh.NewOption("To check syntax and find problems", generator.PurposeProblems),
			).
			Value(&a.Purpose),
	))
	if err := p.run(ctx, langForm); err != nil {
		return a, err
	}

	if a.Has(generator.LangJavaScript) {
		if err := p.askJavaScript(ctx, &a); err != nil {
			return a, err
		}
	}

	if a.Has(generator.LangMarkdown) {
		a.MarkdownFlavor = generator.MarkdownCommonMark
		mdForm := huh.NewForm(huh.NewGroup(
			huh.NewSelect[generator.MarkdownFlavor]().
				Title("What flavor of Markdown do you want to lint?").
				Options(
					huh.NewOption("CommonMark", generator.MarkdownCommonMark),
					huh.NewOption("GitHub Flavored Markdown", generator.MarkdownGFM),
				).
				Value(&a.MarkdownFlavor),
		))
		if err := p.run(ctx, mdForm); err != nil {
			return a, err
		}
	}
	return a, nil
}

func (p *huhPrompter) askJavaScript(ctx context.Context, a *generator.Answers) error {
	a.ModuleType = generator.ModuleESM
	a.Framework = generator.FrameworkNone
	a.Environments = []generator.Environment{generator.EnvBrowser}
	a.ConfigFileLanguage = generator.FileJavaScript
	a.AddJiti = true

	jsForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[generator.ModuleType]().
				Title("What type of modules does your project use?").
				Options(
					huh.NewOption("JavaScript modules (import/export)", generator.ModuleESM),
					huh.NewOption("CommonJS (require/exports)", generator.ModuleCommonJS),
					huh.NewOption("None of these", generator.ModuleScript),
				).
				Value(&a.ModuleType),
			huh.NewSelect[generator.Framework]().
				Title("Which framework does your project use?").
				Options(
					huh.NewOption("React", generator.FrameworkReact),
					huh.NewOption("Vue.js", generator.FrameworkVue),
					huh.NewOption("None of these", generator.FrameworkNone),
				).
				Value(&a.Framework),
			huh.NewConfirm().
				Title("Does your project use TypeScript?").
				Affirmative("Yes").
				Negative("No").
				Value(&a.UseTypeScript),
			huh.NewMultiSelect[generator.Environment]().
				Title("Where does your code run?").
				Options(
					huh.NewOption("Browser", generator.EnvBrowser).Selected(true),
					huh.NewOption("Node", generator.EnvNode),
				).
				Value(&a.Environments),
		),
		huh.NewGroup(
			huh.NewSelect[generator.FileLanguage]().
				Title("Which language do you want your configuration file be written in?").
				Options(
					huh.NewOption("JavaScript", generator.FileJavaScript),
					huh.NewOption("TypeScript", generator.FileTypeScript),
				).
				Value(&a.ConfigFileLanguage),
		).WithHideFunc(func() bool { return !a.UseTypeScript }),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Would you like to add Jiti as a devDependency?").
				Description("Older Node.js versions need Jiti to load a TypeScript config file.").
				Affirmative("Yes").
				Negative("No").
				Value(&a.AddJiti),
		).WithHideFunc(func() bool {
			return !a.UseTypeScript || a.ConfigFileLanguage != generator.FileTypeScript
		}),
	)
	return p.run(ctx, jsForm)
}

// Install asks the installation questions. The manager question is
// skipped when the user declines.
func (p *huhPrompter) Install(ctx context.Context, deps []string, defaultManager string) (bool, string, error) {
	install := true
	manager := defaultManager
	if !slices.Contains(installer.SupportedManagers, manager) {
		manager = installer.SupportedManagers[0]
	}

	choices := make([]huh.Option[string], 0, len(installer.SupportedManagers))
	for _, m := range installer.SupportedManagers {
		choices = append(choices, huh.NewOption(m, m))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Would you like to install them now?").
				Affirmative("Yes").
				Negative("No").
				Value(&install),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which package manager do you want to use?").
				Options(choices...).
				Value(&manager),
		).WithHideFunc(func() bool { return !install }),
	)
	if err := p.run(ctx, form); err != nil {
		return false, "", err
	}
	return install, manager, nil
}

func (p *huhPrompter) run(ctx context.Context, form *huh.Form) error {
	return form.WithAccessible(p.accessible).RunWithContext(ctx)
}

func isSupportedManager(name string) bool {
	return slices.Contains(installer.SupportedManagers, name)
}
