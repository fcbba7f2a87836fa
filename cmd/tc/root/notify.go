package root

import (
	"fmt"
	"io"
	"strings"

	"taskcade/internal/engine"
	"taskcade/internal/ui"
)

// printNotifier writes reward notifications as they happen.
func printNotifier(w io.Writer) engine.NotifierFunc {
	return func(message string, points int) {
		line := ui.Gold.Render(ui.IconSparkle + " " + message)
		if points > 0 {
			line += " " + ui.Points(points)
		}
		fmt.Fprintln(w, line)
	}
}

type printCelebrator struct{ w io.Writer }

func (p printCelebrator) Celebrate() {
	fmt.Fprintln(p.w, strings.Repeat(ui.IconParty+" ", 5))
}
