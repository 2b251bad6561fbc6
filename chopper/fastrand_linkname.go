// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package chopper

import (
	_ "unsafe" // for go:linkname
)

// github.com/grailbio/hts/sam pulls sync.fastrand via go:linkname, but the
// runtime stopped pushing that symbol into sync in Go 1.19. Define it here,
// forwarding to runtime.fastrand, which is what sync.fastrand resolved to on
// the Go versions hts was written against. Without this the final link step
// fails with "relocation target sync.fastrand not defined".

//go:linkname runtimeFastrand runtime.fastrand
func runtimeFastrand() uint32

//go:linkname syncFastrand sync.fastrand
func syncFastrand() uint32 { return runtimeFastrand() }
