// Package browser - fake.go provides a scriptable in-memory Driver for
// tests. Hooks override individual capabilities; unset hooks fall back to
// simple defaults (navigation succeeds, nothing exists, text is empty).
package browser

import "context"

// Fake is a deterministic Driver for tests. Script behavior by setting the
// On* hooks; each hook receives the Fake so it can inspect or mutate session
// state (for example, a login click that moves the location to the feed).
type Fake struct {
	// URL is the current location; Navigate updates it.
	URL string
	// Pages maps a URL to the HTML PageHTML returns while at that URL.
	Pages map[string]string

	OnNavigate    func(f *Fake, url string) error
	OnClick       func(f *Fake, selector string) error
	OnFill        func(f *Fake, selector, value string) error
	OnExists      func(f *Fake, selector string) (bool, error)
	OnText        func(f *Fake, selector string) (string, error)
	OnWaitVisible func(f *Fake, selector string) error

	// Recorded interactions, in order.
	Navigated []string
	Clicked   []string
	Filled    map[string]string
	Closed    bool
}

var _ Driver = (*Fake)(nil)

// NewFake returns an empty Fake ready for scripting.
func NewFake() *Fake {
	return &Fake{
		Pages:  map[string]string{},
		Filled: map[string]string{},
	}
}

func (f *Fake) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.OnNavigate != nil {
		if err := f.OnNavigate(f, url); err != nil {
			return err
		}
	}
	f.URL = url
	f.Navigated = append(f.Navigated, url)
	return nil
}

func (f *Fake) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.Clicked = append(f.Clicked, selector)
	if f.OnClick != nil {
		return f.OnClick(f, selector)
	}
	return nil
}

func (f *Fake) Fill(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.Filled[selector] = value
	if f.OnFill != nil {
		return f.OnFill(f, selector, value)
	}
	return nil
}

func (f *Fake) Text(ctx context.Context, selector string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.OnText != nil {
		return f.OnText(f, selector)
	}
	return "", nil
}

func (f *Fake) Exists(ctx context.Context, selector string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if f.OnExists != nil {
		return f.OnExists(f, selector)
	}
	return false, nil
}

func (f *Fake) WaitVisible(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.OnWaitVisible != nil {
		return f.OnWaitVisible(f, selector)
	}
	return nil
}

func (f *Fake) PageHTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.Pages[f.URL], nil
}

func (f *Fake) Location(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.URL, nil
}

func (f *Fake) Close() error {
	f.Closed = true
	return nil
}
