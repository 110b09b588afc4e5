package testfs

import "github.com/fsnotify/fsnotify"

// Watch registers the given paths with a new change watcher and returns
// it. Registration is pure delegation: no simulated checks apply, and the
// watcher observes the real host file system regardless of the configured
// overrides or the injected base. The caller owns the returned watcher
// and must close it.
func (t *Fs) Watch(paths ...string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			w.Close()
			return nil, err
		}
	}
	return w, nil
}
