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

// GlobalObject is the root object of a realm.
type GlobalObject struct {
    havingABadTime   *WatchpointSet
    regExpRecompiled *WatchpointSet
    matchesArray     *Structure
    hasInstance      *JSFunction
}

func NewGlobalObject() *GlobalObject {
    ret := &GlobalObject {
        havingABadTime   : NewWatchpointSet("HavingABadTime"),
        regExpRecompiled : NewWatchpointSet("RegExpRecompiled"),
        matchesArray     : &Structure { Name: "RegExpMatchesArray", IndexingType: ArrayWithContiguous },
    }

    /* the default `Function.prototype[Symbol.hasInstance]` */
    ret.hasInstance = NewFunction(ret, NewNativeExecutable("[Symbol.hasInstance]", NoIntrinsic))
    return ret
}

func (*GlobalObject) cell() {}

func (self *GlobalObject) GlobalObject() *GlobalObject {
    return self
}

func (self *GlobalObject) HavingABadTimeWatchpointSet() *WatchpointSet {
    return self.havingABadTime
}

func (self *GlobalObject) RegExpRecompiledWatchpointSet() *WatchpointSet {
    return self.regExpRecompiled
}

func (self *GlobalObject) IsHavingABadTime() bool {
    return !self.havingABadTime.IsStillValid()
}

// HaveABadTime switches every array structure of the realm to slow-put
// storage and fires the corresponding watchpoint.
func (self *GlobalObject) HaveABadTime() {
    self.havingABadTime.Invalidate()
    self.matchesArray = &Structure { Name: "RegExpMatchesArray", IndexingType: ArrayWithSlowPutArrayStorage }
}

func (self *GlobalObject) IsRegExpRecompiled() bool {
    return !self.regExpRecompiled.IsStillValid()
}

// RecompileRegExps fires the RegExpRecompiled watchpoint.
func (self *GlobalObject) RecompileRegExps() {
    self.regExpRecompiled.Invalidate()
}

func (self *GlobalObject) RegExpMatchesArrayStructure() *Structure {
    return self.matchesArray
}

func (self *GlobalObject) FunctionProtoHasInstanceSymbolFunction() *JSFunction {
    return self.hasInstance
}
