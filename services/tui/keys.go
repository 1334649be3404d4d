// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tui

// Key bindings. Values are tea.KeyMsg strings.
const (
	keyPrevGeneration = "["
	keyNextGeneration = "]"
	keyPrevCategory   = "<"
	keyNextCategory   = ">"
	keySearch         = "/"
	keyReset          = "r"
	keyHover          = "h"
	keyTheme          = "t"
	keyFlip           = " "
	keyQuit           = "q"
	keyForceQuit      = "ctrl+c"
	keyHelp           = "?"
)

var helpLines = []string{
	"[ ]  previous / next generation",
	"< >  previous / next type",
	"/    search by name (enter or esc to finish)",
	"j k  move focus        space  flip card",
	"r    reset to generation one, clear filters",
	"h    toggle hover preview",
	"t    toggle theme",
	"q    quit",
}

const footerHint = "[ ] gen  < > type  / search  r reset  h hover  t theme  ? help  q quit"
