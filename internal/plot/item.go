package plot

import "fmt"

// Item is one entry of a plot. Either Command is set (a literal plot
// clause, e.g. `sin(x) with lines' or a quoted filename) or Data carries a
// block that is streamed to gnuplot, with Options appended after the
// generated datafile reference. ViaFile forces the data through a temporary
// file instead of a named pipe, which gnuplot requires for formats it seeks
// in (`binary matrix').
type Item struct {
	Command string
	Data    []byte
	Options string
	ViaFile bool
}

// CommandItem returns a literal plot item.
func CommandItem(command string) Item {
	return Item{Command: command}
}

// DataItem returns a plot item whose data is piped to gnuplot.
func DataItem(data []byte, options string) Item {
	return Item{Data: data, Options: options}
}

// FileDataItem returns a plot item whose data is passed through a
// temporary file.
func FileDataItem(data []byte, options string) Item {
	return Item{Data: data, Options: options, ViaFile: true}
}

// IsData reports whether the item carries a data block.
func (it Item) IsData() bool {
	return it.Command == ""
}

// String describes the item for logs and errors without dumping its data.
func (it Item) String() string {
	if !it.IsData() {
		return fmt.Sprintf("<command %q>", it.Command)
	}
	mode := "pipe"
	if it.ViaFile {
		mode = "file"
	}
	return fmt.Sprintf("<data %d bytes options=%q mode=%s>", len(it.Data), it.Options, mode)
}
