package app

// paneSize returns the content size of the bordered pane given the terminal
// size and the heights of the chrome around it. Widths and heights returned
// here are content sizes, not outer sizes.
//
// Vertical overhead is the tab bar, the pane header line, the status line and
// the pane border (2 rows). Horizontal overhead is the pane border.
func paneSize(totalWidth, totalHeight, footerHeight, dockHeight int) (int, int) {
	const (
		borderW = 2
		borderH = 2
		chromeH = 3 // tab bar, header, status
	)

	width := totalWidth - borderW
	if width < 1 {
		width = 1
	}
	height := totalHeight - footerHeight - dockHeight - chromeH - borderH
	if height < 1 {
		height = 1
	}
	return width, height
}

// scrollToShow returns the offset that keeps row visible in a window of
// height rows starting at offset, moving as little as possible.
func scrollToShow(offset, height, row int) int {
	if height < 1 {
		height = 1
	}
	switch {
	case row < offset:
		return row
	case row >= offset+height:
		return row - height + 1
	}
	return offset
}
