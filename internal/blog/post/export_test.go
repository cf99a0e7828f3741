// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

// FindTagQuery exposes the tag lookup statement to the external tests.
var FindTagQuery = findTagQuery
