package ports

// BrowserOpener opens exported presentations in the user's browser
type BrowserOpener interface {
	// Open opens a URL or local file path
	Open(target string) error
	// Detect names the browser command Open would use
	Detect() (string, error)
}
