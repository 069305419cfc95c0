// Command peritext-demo is an interactive exploration tool for the
// formatting engine: it persists one document's marks and backing text to
// a JSON file between invocations, so each subcommand behaves like one
// step of a REPL session driven from the shell.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/phroun/peritext/engine"
	"github.com/phroun/peritext/format"
)

const version = "0.1.0"

// CLI defines the command-line interface for peritext-demo.
var CLI struct {
	File string `name:"file" short:"f" help:"Document state file" default:"peritext-demo.json"`

	Init    InitCmd    `cmd:"" help:"Create a fresh document"`
	Insert  InsertCmd  `cmd:"" help:"Insert text, optionally stamping a starting format"`
	Format  FormatCmd  `cmd:"" help:"Apply or remove a format key over an index range"`
	Spans   SpansCmd   `cmd:"" help:"List the document's formatted spans"`
	Dump    DumpCmd    `cmd:"" help:"Print the engine's internal mark set and index"`
	Save    SaveCmd    `cmd:"" help:"Copy the current document state to another file"`
	Load    LoadCmd    `cmd:"" help:"Replace the current document state from another file"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// InitCmd creates a fresh document, discarding any existing state file.
type InitCmd struct {
	Text    string `help:"Seed text for the new document"`
	Replica string `help:"Replica id stamped on marks this session creates" default:"demo"`
}

func (c *InitCmd) Run() error {
	f := format.New[rune](format.Options{ReplicaID: c.Replica})
	if c.Text != "" {
		if _, err := f.InsertWithFormat(0, engine.Format{}, []rune(c.Text), nil); err != nil {
			return err
		}
	}
	return saveFormatter(CLI.File, f)
}

// InsertCmd inserts text at an index, creating marks for any flagged
// format keys that differ from what already prevails there.
type InsertCmd struct {
	At     int    `required:"" help:"Index to insert at"`
	Text   string `required:"" help:"Text to insert"`
	Bold   bool   `help:"Insert as bold"`
	Italic bool   `help:"Insert as italic"`
	URL    string `help:"Insert as a link to this URL"`
}

func (c *InsertCmd) Run() error {
	f, err := loadFormatter(CLI.File)
	if err != nil {
		return err
	}
	desired := engine.Format{}
	if c.Bold {
		desired["bold"] = true
	}
	if c.Italic {
		desired["italic"] = true
	}
	if c.URL != "" {
		desired["url"] = c.URL
	}
	marks, err := f.InsertWithFormat(c.At, desired, []rune(c.Text), nil)
	if err != nil {
		return err
	}
	fmt.Printf("inserted %d runes, created %d mark(s)\n", len([]rune(c.Text)), len(marks))
	return saveFormatter(CLI.File, f)
}

// FormatCmd applies (or, with Remove, clears) one format key over
// [Start, End).
type FormatCmd struct {
	Start  int    `required:"" help:"Start index"`
	End    int    `required:"" help:"End index (exclusive)"`
	Key    string `required:"" help:"Format key"`
	Value  string `help:"Format value"`
	Remove bool   `help:"Remove the key instead of setting it"`
	Expand string `help:"Expand policy: none, before, after, both" default:"after" enum:"none,before,after,both"`
}

func (c *FormatCmd) Run() error {
	f, err := loadFormatter(CLI.File)
	if err != nil {
		return err
	}
	var value engine.Value = c.Value
	if c.Remove {
		value = engine.NullValue
	}
	_, changes, err := f.Format(c.Start, c.End, c.Key, value, parseExpand(c.Expand))
	if err != nil {
		return err
	}
	fmt.Printf("%d change record(s)\n", len(changes))
	for _, ch := range changes {
		fmt.Printf("  %s: %v -> %v\n", ch.Key, ch.PreviousValue, ch.Value)
	}
	return saveFormatter(CLI.File, f)
}

// SpansCmd lists the document's maximal formatted spans with their text.
type SpansCmd struct{}

func (c *SpansCmd) Run() error {
	f, err := loadFormatter(CLI.File)
	if err != nil {
		return err
	}
	for _, sp := range f.FormattedSlices() {
		entries, err := f.Entries(sp.Start, sp.End)
		if err != nil {
			return err
		}
		text := make([]rune, len(entries))
		for i, e := range entries {
			text[i] = e.Value
		}
		fmt.Printf("[%d,%d) %q %v\n", sp.Start, sp.End, string(text), sp.Format)
	}
	return nil
}

// DumpCmd prints the engine's raw internal state, for debugging only.
type DumpCmd struct{}

func (c *DumpCmd) Run() error {
	f, err := loadFormatter(CLI.File)
	if err != nil {
		return err
	}
	fmt.Println(f.Engine().Dump())
	return nil
}

// SaveCmd copies the current document state to another file.
type SaveCmd struct {
	To string `arg:"" help:"Destination file"`
}

func (c *SaveCmd) Run() error {
	f, err := loadFormatter(CLI.File)
	if err != nil {
		return err
	}
	return saveFormatter(c.To, f)
}

// LoadCmd replaces the current document state from another file.
type LoadCmd struct {
	From string `arg:"" help:"Source file"`
}

func (c *LoadCmd) Run() error {
	f, err := loadFormatter(c.From)
	if err != nil {
		return err
	}
	return saveFormatter(CLI.File, f)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("peritext-demo version %s\n", version)
	return nil
}

func parseExpand(s string) engine.Expand {
	switch s {
	case "before":
		return engine.ExpandBefore
	case "after":
		return engine.ExpandAfter
	case "both":
		return engine.ExpandBoth
	default:
		return engine.ExpandNone
	}
}

func loadFormatter(path string) (*format.Formatter[rune], error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return format.New[rune](format.Options{ReplicaID: "demo"}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("peritext-demo: reading %s: %w", path, err)
	}
	var saved format.SavedState[rune]
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("peritext-demo: decoding %s: %w", path, err)
	}
	f := format.New[rune](format.Options{ReplicaID: saved.ReplicaID})
	f.Load(saved)
	return f, nil
}

func saveFormatter(path string, f *format.Formatter[rune]) error {
	data, err := json.MarshalIndent(f.Save(), "", "  ")
	if err != nil {
		return fmt.Errorf("peritext-demo: encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("peritext-demo: writing %s: %w", path, err)
	}
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("peritext-demo"),
		kong.Description("Interactive exploration of the peritext formatting engine"),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
