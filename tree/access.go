// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import "fmt"

// aclFlags is the parsed form of one ACL entry's "access" directive
// list.
type aclFlags uint8

const (
	aclRead aclFlags = 1 << iota
	aclWrite
	aclCascade
	aclReset
)

func parseACLFlags(directives []string) (aclFlags, error) {
	var flags aclFlags
	for _, d := range directives {
		switch d {
		case "read":
			flags |= aclRead
		case "write":
			flags |= aclWrite
		case "cascade":
			flags |= aclCascade
		case "reset":
			flags |= aclReset
		default:
			return 0, fmt.Errorf("tree: unknown access directive %q", d)
		}
	}
	return flags, nil
}

// accessKey identifies one (uid, gid) pair for the per-entry
// effective-access cache.
type accessKey struct {
	uid uint32
	gid uint32
}

// effectiveAccess walks from e up through its ancestors, computing
// the (can_read, can_write) pair granted to the given uid and gid.
//
// e's own ACL entries always apply. An ancestor's ACL entry for the
// same uid or gid only contributes if that entry carries the
// "cascade" directive -- cascade is a property of the entry doing the
// granting, not of the entry receiving it. A "reset" directive on any
// entry along the walk, including e itself, stops the walk from
// considering anything strictly shallower (closer to the root) than
// that entry; the entry carrying reset still contributes its own
// bits first.
//
// When the tree was not configured with inherit_access_rights, only
// e's own entries are consulted and the walk never climbs: an entry
// with no ACL match for (uid, gid) grants nothing, full stop.
//
// Results are cached per (uid, gid) on e, since the walk only ever
// depends on static configuration.
func (t *Tree) effectiveAccess(e *entry, uid, gid uint32) (canRead, canWrite bool) {
	key := accessKey{uid: uid, gid: gid}

	e.accessMu.Lock()
	if cached, ok := e.accessCache[key]; ok {
		e.accessMu.Unlock()
		return cached.read, cached.write
	}
	e.accessMu.Unlock()

	canRead, canWrite = t.computeEffectiveAccess(e, uid, gid)

	e.accessMu.Lock()
	if e.accessCache == nil {
		e.accessCache = make(map[accessKey]effectiveAccessResult)
	}
	e.accessCache[key] = effectiveAccessResult{read: canRead, write: canWrite}
	e.accessMu.Unlock()

	return canRead, canWrite
}

type effectiveAccessResult struct {
	read  bool
	write bool
}

func (t *Tree) computeEffectiveAccess(e *entry, uid, gid uint32) (canRead, canWrite bool) {
	current := e
	depth := 0

	for {
		uidFlags, uidOK := current.uidAccess[uid]
		gidFlags, gidOK := current.gidAccess[gid]

		applies := depth == 0
		if uidOK && (applies || uidFlags&aclCascade != 0) {
			canRead = canRead || uidFlags&aclRead != 0
			canWrite = canWrite || uidFlags&aclWrite != 0
		}
		if gidOK && (applies || gidFlags&aclCascade != 0) {
			canRead = canRead || gidFlags&aclRead != 0
			canWrite = canWrite || gidFlags&aclWrite != 0
		}

		resetHere := (uidOK && uidFlags&aclReset != 0) || (gidOK && gidFlags&aclReset != 0)
		if resetHere || current.parent == nil || !t.inheritAccessRights {
			break
		}

		current = current.parent
		depth++
	}

	return canRead, canWrite
}
