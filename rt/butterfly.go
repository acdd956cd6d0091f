/*
 * Copyright 2022 CloudWeGo Authors
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

package rt

const (
    _ValueSize           = 8
    _IndexingHeaderSize  = 8
    _SizeStep            = 16
    _PreciseCutoff       = 80
    _BaseVectorLen       = 3
    _BaseVectorLenEmpty  = 5
)

var sizeClasses = makeSizeClasses()

func makeSizeClasses() []int {
    var ret []int
    for v := float64(_PreciseCutoff); v < 8192; v *= 1.4 {
        ret = append(ret, roundUp(int(v), _SizeStep))
    }
    return ret
}

func roundUp(v int, n int) int {
    return (v + n - 1) / n * n
}

func optimalSizeFor(size int) int {
    if size <= _PreciseCutoff {
        return roundUp(size, _SizeStep)
    }
    for _, c := range sizeClasses {
        if size <= c {
            return c
        }
    }
    return roundUp(size, _SizeStep)
}

// OptimalContiguousVectorLength returns how many elements a contiguous array
// allocation for length elements can hold once the allocation is rounded up
// to the allocator's size class.
func OptimalContiguousVectorLength(structure *Structure, length int) int {
    if length == 0 {
        length = _BaseVectorLenEmpty
    } else if length < _BaseVectorLen {
        length = _BaseVectorLen
    }

    /* round the cell to a size class */
    hdr := _IndexingHeaderSize + len(structure.Properties) * _ValueSize
    return (optimalSizeFor(hdr + length * _ValueSize) - hdr) / _ValueSize
}
