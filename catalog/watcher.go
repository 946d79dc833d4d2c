package catalog

import (
	"log"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watch starts watching the directory that the registry was loaded from and reloads a
// catalog file whenever it is written. The given callback receives the name of every
// reloaded definition. The returned watcher must be closed by the caller.
func (r *Registry) Watch(onReload func(name string)) *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		panic(err)
	}
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write == fsnotify.Write {
					if yamlFile(event.Name) {
						d, err := Read(event.Name)
						if err != nil {
							logrus.Errorf(`unable to reload catalog from %s: %s`, event.Name, err)
							continue
						}
						r.Add(d)
						logrus.Debugf(`reloaded catalog %s`, d.Name())
						if onReload != nil {
							onReload(d.Name())
						}
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logrus.Error("error:", err)
			}
		}
	}()

	r.lock.Lock()
	dir := r.dir
	r.lock.Unlock()
	err = watcher.Add(dir)
	if err != nil {
		log.Fatal(err)
	}
	return watcher
}
