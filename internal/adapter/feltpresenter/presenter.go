package feltpresenter

import (
	"strings"
)

// Presenter delivers formatted blocks and table images without coupling to
// the console loop. printBlock writes one text block to the terminal;
// saveImage persists a rendered PNG and returns where it landed.
type Presenter struct {
	printBlock func(block string) error
	saveImage  func(data []byte) (string, error)
}

func NewPresenter(printBlock func(block string) error, saveImage func(data []byte) (string, error)) *Presenter {
	return &Presenter{
		printBlock: printBlock,
		saveImage:  saveImage,
	}
}

// Show prints one text block, skipping empties.
func (p *Presenter) Show(block string) error {
	if p == nil || p.printBlock == nil {
		return nil
	}
	if strings.TrimSpace(block) == "" {
		return nil
	}
	return p.printBlock(block)
}

// Table prints a text block, then persists the rendered table image and
// reports its location.
func (p *Presenter) Table(block string, png []byte) error {
	if p == nil {
		return nil
	}
	if err := p.Show(block); err != nil {
		return err
	}
	if len(png) == 0 || p.saveImage == nil {
		return nil
	}
	path, err := p.saveImage(png)
	if err != nil {
		return err
	}
	if strings.TrimSpace(path) != "" {
		return p.Show("table image: " + path)
	}
	return nil
}
