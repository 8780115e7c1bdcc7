/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionStrings(t *testing.T) {
	assert.Equal(t, "dev", GetVersion())
	assert.Equal(t, "dev", GetBuildID())
	assert.Equal(t, "dev (build: dev)", GetFullVersion())
	assert.Equal(t, "nodeview/dev", UserAgent())
}

func TestBanner(t *testing.T) {
	b := Banner("nodes-api")

	assert.True(t, strings.HasPrefix(b, "nodes-api dev (build: dev) "))
	assert.Contains(t, b, runtime.Version())
	assert.Contains(t, b, runtime.GOOS+"/"+runtime.GOARCH)
}
