/*
 * changetracker.go, part of refine
 *
 * Copyright 2024 The refine developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package refine

import "strings"

//ChangeReason is a bit flag describing what changed about a managed
//object since the last drain.
type ChangeReason uint32

const (
	ReasonCreated ChangeReason = 1 << iota
	ReasonTargetChanged
	ReasonSpringConstantChanged
	ReasonEnabledChanged
	ReasonDisplayChanged
	ReasonSimIndexChanged
	ReasonDeleted
)

func (r ChangeReason) String() string {
	names := []struct {
		flag ChangeReason
		name string
	}{
		{ReasonCreated, "created"},
		{ReasonTargetChanged, "target changed"},
		{ReasonSpringConstantChanged, "spring constant changed"},
		{ReasonEnabledChanged, "enabled/disabled"},
		{ReasonDisplayChanged, "display changed"},
		{ReasonSimIndexChanged, "simulation index changed"},
		{ReasonDeleted, "deleted"},
	}
	set := make([]string, 0, 2)
	for _, n := range names {
		if r&n.flag != 0 {
			set = append(set, n.name)
		}
	}
	if len(set) == 0 {
		return "no change"
	}
	return strings.Join(set, ", ")
}

//MgrChanges is the accumulated change set of one manager: every
//mutated object mapped to the OR of its change reasons.
type MgrChanges struct {
	Name         string
	ManagedClass string
	Objects      map[interface{}]ChangeReason
}

//ChangeTracker is the session-wide log of "what changed", consumed by
//a UI or simulation-driver layer between simulation steps. Managers
//register once, then report every mutation of their objects; the
//consumer drains the accumulated batches with Changes followed by
//Clear. Accumulation is idempotent: repeating a reason for the same
//object collapses into a single flag.
//
//Like the rest of this library the tracker is not goroutine-safe;
//one control thread per session drives all mutation.
type ChangeTracker struct {
	mgrs    map[interface{}]mgrEntry
	changes map[interface{}]map[interface{}]ChangeReason
}

type mgrEntry struct {
	name         string
	managedClass string
}

//NewChangeTracker returns an empty tracker. Sessions create one at
//startup and hand it to every manager.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{
		mgrs:    make(map[interface{}]mgrEntry),
		changes: make(map[interface{}]map[interface{}]ChangeReason),
	}
}

//RegisterMgr declares a manager identity together with a display name
//and a label for the class of objects it manages, used by UI layers
//to group change batches. Registering the same manager again just
//updates the labels.
func (T *ChangeTracker) RegisterMgr(mgr interface{}, name, managedClass string) {
	T.mgrs[mgr] = mgrEntry{name: name, managedClass: managedClass}
}

//TrackChange records a change reason for an object owned by mgr.
func (T *ChangeTracker) TrackChange(mgr, obj interface{}, reason ChangeReason) {
	m := T.changes[mgr]
	if m == nil {
		m = make(map[interface{}]ChangeReason)
		T.changes[mgr] = m
	}
	m[obj] |= reason
}

//Changes returns a snapshot of all accumulated change batches. The
//maps inside are copies; mutating them does not affect the tracker.
func (T *ChangeTracker) Changes() []MgrChanges {
	out := make([]MgrChanges, 0, len(T.changes))
	for mgr, objs := range T.changes {
		entry := T.mgrs[mgr]
		c := MgrChanges{Name: entry.name, ManagedClass: entry.managedClass,
			Objects: make(map[interface{}]ChangeReason, len(objs))}
		for o, r := range objs {
			c.Objects[o] = r
		}
		out = append(out, c)
	}
	return out
}

//ChangesFor returns the accumulated reasons for a single manager, or
//nil if it has none pending.
func (T *ChangeTracker) ChangesFor(mgr interface{}) map[interface{}]ChangeReason {
	objs := T.changes[mgr]
	if objs == nil {
		return nil
	}
	c := make(map[interface{}]ChangeReason, len(objs))
	for o, r := range objs {
		c[o] = r
	}
	return c
}

//Clear drains all accumulated changes. Registrations survive.
func (T *ChangeTracker) Clear() {
	T.changes = make(map[interface{}]map[interface{}]ChangeReason)
}
