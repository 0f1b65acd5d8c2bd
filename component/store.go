package component

import (
	"os"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
	"github.com/termie/go-shutil"
	flock "github.com/theckman/go-flock"
)

// Load reads a component document at path through codec, accepting both
// the legacy and enriched symbol forms (spec §4.3).
func Load(path string, codec Codec) (*Component, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open component %s", path)
	}
	defer f.Close()

	doc, err := codec.Decode(f)
	if err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}
	return FromRaw(doc), nil
}

// Save writes component to path in the enriched form, through codec.
//
// Before writing, Save takes an advisory file lock on path+".lock" (via
// github.com/theckman/go-flock, the file-locking library golang/dep
// itself vendors) so two processes racing to save the same component
// document serialize rather than interleave, and - if a file already
// exists at path - copies it aside to path+".bak" with
// github.com/termie/go-shutil's CopyFile before replacing it. The new
// document is written to path+".tmp" and renamed over path, so a crash
// mid-write leaves the prior document in place, with a copy in the backup.
func Save(c *Component, path string, codec Codec) error {
	lock := flock.NewFlock(path + ".lock")
	if err := lock.Lock(); err != nil {
		return errors.Wrapf(err, "lock component store for %s", path)
	}
	defer lock.Unlock()

	if _, err := os.Stat(path); err == nil {
		if err := shutil.CopyFile(path, path+".bak", true); err != nil {
			return errors.Wrapf(err, "back up existing component file %s", path)
		}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", path)
	}
	if err := codec.Encode(f, ToRaw(c)); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "encode component %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close temp file for %s", path)
	}
	return os.Rename(tmp, path)
}

// LoadAll bulk-loads every component document under dir whose name
// matches suffix (e.g. ".component.json"), using
// github.com/karrick/godirwalk for the traversal - the fast walker
// golang/dep's own internal/fs package reaches for over filepath.Walk
// when scanning a project tree. This gives a concrete, in-scope home to
// a directory-walking dependency without touching package fetching
// (which remains out of scope).
func LoadAll(dir, suffix string, codec Codec) ([]*Component, error) {
	var out []*Component
	err := godirwalk.Walk(dir, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() || !strings.HasSuffix(path, suffix) {
				return nil
			}
			c, err := Load(path, codec)
			if err != nil {
				return err
			}
			out = append(out, c)
			return nil
		},
		Unsorted: false,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk component directory %s", dir)
	}
	return out, nil
}
