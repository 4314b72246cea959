package app

// paneWidths splits the terminal into two bordered diff panes and returns
// their content widths. Border overhead is 3 columns: outer left, shared
// divider and outer right.
func paneWidths(totalWidth int) (int, int) {
	available := totalWidth - 3
	if available < 2 {
		return 1, 1
	}
	left := available / 2
	right := available - left
	return left, right
}

// paneHeight is the content height of each diff pane once the status bar,
// dock and footer have been laid out. Two rows go to the top and bottom
// borders and two to the pane title and its spacer.
func paneHeight(totalHeight, statusHeight, dockHeight, footerHeight int) int {
	return max(1, totalHeight-statusHeight-dockHeight-footerHeight-2-2)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
