// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package opts

// 🔧 TransformFlags holds the transformation flags shared by preview and
// rename. Only flags the user set override the preset.
type TransformFlags struct {
	Operation     string
	Scope         string
	Find          string
	With          string
	Regex         bool
	CaseSensitive bool
	Start         int
	Increment     int
	From          int
	To            int
	FromEnd       bool
	ToEnd         bool
	Text          string
	At            int
	Reverse       bool
	Overwrite     bool
	Case          string
}

// 🎯 RootOpts holds the persistent flags and shared dependencies of every
// command
type RootOpts struct {
	ConfigFile      string
	PrefsFile       string
	MetricsTextfile string
	Glob            []string
	Exclude         []string
	Debug           bool
	Async           bool

	Transform TransformFlags
}
