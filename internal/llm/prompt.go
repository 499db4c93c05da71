package llm

import "fmt"

func BuildBreakdownPrompt(goal string) string {
	return fmt.Sprintf(
		"Break down this goal into a JSON array, each item with 'title', 'weight' (1-5), "+
			"and 'deadline_days' (days from now).\n"+
			"Goal: %s\n\n"+
			"Example output:\n"+
			`[{"title": "First step", "weight": 2, "deadline_days": 2}]`+"\n",
		goal,
	)
}
