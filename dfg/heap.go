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

package dfg

import (
    `fmt`
)

// HeapKind is a node of the abstract heap hierarchy:
//
//     World
//       +- Stack
//       +- Heap
//       |    +- RegExpObjectLastIndex
//       |    +- NamedProperties
//       |    +- IndexedProperties
//       |    +- MiscFields
//       +- RegExpState
//       +- SideState
//
type HeapKind uint8

const (
    InvalidHeap HeapKind = iota
    World
    Stack
    Heap
    RegExpObjectLastIndex
    NamedProperties
    IndexedProperties
    MiscFields
    RegExpState
    SideState
)

var heapParent = [...]HeapKind {
    World                 : InvalidHeap,
    Stack                 : World,
    Heap                  : World,
    RegExpObjectLastIndex : Heap,
    NamedProperties       : Heap,
    IndexedProperties     : Heap,
    MiscFields            : Heap,
    RegExpState           : World,
    SideState             : World,
}

var heapNames = [...]string {
    InvalidHeap           : "Invalid",
    World                 : "World",
    Stack                 : "Stack",
    Heap                  : "Heap",
    RegExpObjectLastIndex : "RegExpObject_lastIndex",
    NamedProperties       : "NamedProperties",
    IndexedProperties     : "IndexedProperties",
    MiscFields            : "MiscFields",
    RegExpState           : "RegExpState",
    SideState             : "SideState",
}

func (self HeapKind) String() string {
    return heapNames[self]
}

func (self HeapKind) isStrictSubKindOf(other HeapKind) bool {
    for p := heapParent[self]; p != InvalidHeap; p = heapParent[p] {
        if p == other {
            return true
        }
    }
    return false
}

// AbstractHeap is a region of state an operation may read or write. Stack
// heaps may be narrowed to a single operand.
type AbstractHeap struct {
    Kind    HeapKind
    Operand Operand
    Precise bool
}

func HeapOf(kind HeapKind) AbstractHeap {
    return AbstractHeap { Kind: kind }
}

func StackHeap(operand Operand) AbstractHeap {
    return AbstractHeap { Kind: Stack, Operand: operand, Precise: true }
}

func (self AbstractHeap) String() string {
    if self.Precise {
        return fmt.Sprintf("%s(%s)", self.Kind, self.Operand)
    } else {
        return self.Kind.String()
    }
}

// Overlaps reports whether the two heaps may denote the same state.
func (self AbstractHeap) Overlaps(other AbstractHeap) bool {
    if self.Kind != other.Kind {
        return self.Kind.isStrictSubKindOf(other.Kind) || other.Kind.isStrictSubKindOf(self.Kind)
    }
    if self.Precise && other.Precise {
        return self.Operand == other.Operand
    }
    return true
}

type heapEffects struct {
    reads  []AbstractHeap
    writes []AbstractHeap
}

var (
    effectsNone  = heapEffects{}
    effectsWorld = heapEffects {
        reads  : []AbstractHeap { HeapOf(World) },
        writes : []AbstractHeap { HeapOf(World) },
    }
    effectsRegExp = heapEffects {
        reads  : []AbstractHeap { HeapOf(RegExpState), HeapOf(RegExpObjectLastIndex) },
        writes : []AbstractHeap { HeapOf(RegExpState), HeapOf(RegExpObjectLastIndex) },
    }
)

func hasUntypedChild(g *Graph, node *Node) bool {
    ret := false
    g.ForEachChild(node, func(e *Edge) {
        ret = ret || e.UseKind() == UntypedUse
    })
    return ret
}

// clobberize describes the state node may read and write.
func clobberize(g *Graph, node *Node) heapEffects {
    switch node.Op() {
        case GetLocal, Flush, PhantomLocal: {
            return heapEffects { reads: []AbstractHeap { StackHeap(node.Operand()) } }
        }
        case SetLocal: {
            return heapEffects { writes: []AbstractHeap { StackHeap(node.Operand()) } }
        }
        case GetRegExpObjectLastIndex: {
            return heapEffects { reads: []AbstractHeap { HeapOf(RegExpObjectLastIndex) } }
        }
        case SetRegExpObjectLastIndex: {
            return heapEffects { writes: []AbstractHeap { HeapOf(RegExpObjectLastIndex) } }
        }
        case RecordRegExpCachedResult: {
            return heapEffects { writes: []AbstractHeap { HeapOf(RegExpState) } }
        }
        case GetArrayLength: {
            return heapEffects { reads: []AbstractHeap { HeapOf(MiscFields) } }
        }
        case NewFunction, NewRegExp, NewStringObject, MaterializeNewObject: {
            return heapEffects { writes: []AbstractHeap { HeapOf(SideState) } }
        }
        case RegExpExec, RegExpTest, RegExpSearch, RegExpMatchFast: {
            if hasUntypedChild(g, node) {
                return effectsWorld
            }
            return effectsRegExp
        }
        case RegExpExecNonGlobalOrSticky, RegExpMatchFastGlobal, RegExpTestInline: {
            return effectsRegExp
        }
        case StringReplace, StringReplaceAll, StringReplaceRegExp: {
            if hasUntypedChild(g, node) {
                return effectsWorld
            }
            return effectsRegExp
        }
        case ValueAdd, ValueMul, ValueBitOr, ValueBitAnd, ValueBitXor, ToString, CallStringConstructor, StrCat, NumberToStringWithRadix, NewRegExpUntyped: {
            if hasUntypedChild(g, node) {
                return effectsWorld
            }
            return effectsNone
        }
        case CompareEq, CompareStrictEq, SameValue, CompareLess, CompareLessEq, CompareGreater, CompareGreaterEq: {
            if hasUntypedChild(g, node) {
                return effectsWorld
            }
            return effectsNone
        }
        case GetByVal, GetByValMegamorphic, PutByVal, PutByValDirect, PutByValAlias, PutByValMegamorphic: {
            return effectsWorld
        }
        case InByVal, InByValMegamorphic, HasOwnProperty: {
            return effectsWorld
        }
        case Call, Construct, TailCall, TailCallInlinedCaller, DirectCall, DirectConstruct, DirectTailCall, DirectTailCallInlinedCaller, CallWasm: {
            return effectsWorld
        }
        default: {
            return effectsNone
        }
    }
}

func anyOverlaps(heaps []AbstractHeap, heap AbstractHeap) bool {
    for _, h := range heaps {
        if h.Overlaps(heap) {
            return true
        }
    }
    return false
}

// WritesOverlap reports whether node may write state overlapping heap.
func WritesOverlap(g *Graph, node *Node, heap AbstractHeap) bool {
    return anyOverlaps(clobberize(g, node).writes, heap)
}

// ReadsOverlap reports whether node may read state overlapping heap.
func ReadsOverlap(g *Graph, node *Node, heap AbstractHeap) bool {
    return anyOverlaps(clobberize(g, node).reads, heap)
}

// AccessesOverlap reports whether node may read or write state overlapping
// heap.
func AccessesOverlap(g *Graph, node *Node, heap AbstractHeap) bool {
    fx := clobberize(g, node)
    return anyOverlaps(fx.reads, heap) || anyOverlaps(fx.writes, heap)
}

// ScanBackward visits the nodes of bb before index start, nearest first,
// until visit returns false.
func ScanBackward(bb *BasicBlock, start int, visit func(i int, node *Node) bool) {
    if start > bb.Size() {
        Violate("ScanBackward", "start %d is past the block of size %d", start, bb.Size())
    }
    for i := start - 1; i >= 0; i-- {
        if !visit(i, bb.At(i)) {
            return
        }
    }
}
