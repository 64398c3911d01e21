package main

import (
	"fmt"

	"gitlab.com/tinyland/lab/hwpulse/setupcheck"
)

// printSetupReport renders environment check results for the console,
// providing actionable feedback for users.
func printSetupReport(report setupcheck.Report) {
	fmt.Println("🔍 GPU Environment Setup Check")
	fmt.Println("============================================================")
	fmt.Println()

	for _, r := range report.Results {
		icon := "✅"
		switch r.Status {
		case setupcheck.StatusWarn:
			icon = "⚠️ "
		case setupcheck.StatusFail:
			icon = "❌"
		}

		fmt.Printf("%s %s\n", icon, r.Name)
		fmt.Printf("   %s\n", r.Message)
		if r.Recommendation != "" {
			fmt.Printf("   💡 %s\n", r.Recommendation)
		}
		fmt.Println()
	}

	fmt.Println("============================================================")
	if report.AllPassed {
		fmt.Println("✨ All checks passed! GPU monitoring should work correctly.")
	} else {
		fmt.Println("⚠️  Some checks failed. GPU metrics may be unavailable.")
	}
}
