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

package jsnum

import (
    `math`
    `strconv`
    `strings`

    `golang.org/x/exp/constraints`
)

const (
    _MaxRadix = 36
    _MinRadix = 2
)

const _Digits = "0123456789abcdefghijklmnopqrstuvwxyz"

// Abs returns the absolute value of v. The minimum value of T has no
// positive counterpart, callers must rule it out first.
func Abs[T constraints.Signed](v T) T {
    if v < 0 {
        return -v
    } else {
        return v
    }
}

// FormatInt32 formats v the way Number.prototype.toString does.
func FormatInt32(v int32) string {
    return strconv.FormatInt(int64(v), 10)
}

// Format formats v the way Number.prototype.toString does with radix 10.
func Format(v float64) string {
    switch {
        case math.IsNaN(v)   : return "NaN"
        case v == 0          : return "0"
        case math.IsInf(v, 1)  : return "Infinity"
        case math.IsInf(v, -1) : return "-Infinity"
        case v < 0           : return "-" + Format(-v)
    }

    /* shortest round-trip digits, "d.dddde±XX" */
    e := strconv.FormatFloat(v, 'e', -1, 64)
    p := strings.IndexByte(e, 'e')
    x, _ := strconv.Atoi(e[p + 1:])
    s := strings.Replace(e[:p], ".", "", 1)

    /* k digits, decimal point after the n-th digit */
    k := len(s)
    n := x + 1

    /* select the notation */
    switch {
        case k <= n && n <= 21 : return s + strings.Repeat("0", n - k)
        case 0 < n && n <= 21  : return s[:n] + "." + s[n:]
        case -6 < n && n <= 0  : return "0." + strings.Repeat("0", -n) + s
    }

    /* exponential notation */
    var sb strings.Builder
    sb.WriteByte(s[0])

    /* fraction digits */
    if k > 1 {
        sb.WriteByte('.')
        sb.WriteString(s[1:])
    }

    /* exponent, always signed */
    sb.WriteByte('e')
    if n - 1 >= 0 {
        sb.WriteByte('+')
    }
    sb.WriteString(strconv.Itoa(n - 1))
    return sb.String()
}

// FormatRadix formats v in the given radix (2 to 36) the way
// Number.prototype.toString(radix) does.
func FormatRadix(v float64, radix int) string {
    if radix < _MinRadix || radix > _MaxRadix {
        panic("jsnum: invalid radix " + strconv.Itoa(radix))
    }

    /* special values */
    switch {
        case radix == 10       : return Format(v)
        case math.IsNaN(v)     : return "NaN"
        case math.IsInf(v, 1)  : return "Infinity"
        case math.IsInf(v, -1) : return "-Infinity"
    }

    /* integers that fit in an int32 are the common case */
    if i := int32(v); float64(i) == v {
        return strconv.FormatInt(int64(i), radix)
    }

    /* work on the magnitude */
    neg := v < 0
    if neg {
        v = -v
    }

    /* split the value */
    r := float64(radix)
    ip := math.Floor(v)
    fp := v - ip

    /* only generate fraction digits up to the precision of the input */
    delta := math.Max(0.5 * (math.Nextafter(v, math.Inf(1)) - v), math.SmallestNonzeroFloat64)
    frac := []byte(nil)

    /* fraction digits */
    if fp >= delta {
        for {
            fp *= r
            delta *= r
            d := int(fp)
            frac = append(frac, _Digits[d])
            fp -= float64(d)

            /* round half to even */
            if fp > 0.5 || (fp == 0.5 && (d & 1) != 0) {
                if fp + delta > 1 {
                    ip += carry(&frac, radix)
                    break
                }
            }

            /* stop once the remainder is below the precision */
            if fp < delta {
                break
            }
        }
    }

    /* integer digits, positions beyond 53 bits of precision are zeros */
    var buf []byte
    for ip / r >= 1 << 53 {
        ip /= r
        buf = append(buf, '0')
    }

    /* the remaining digits are exact */
    for {
        m := math.Mod(ip, r)
        buf = append(buf, _Digits[int(m)])
        if ip = (ip - m) / r; ip <= 0 {
            break
        }
    }

    /* digits were generated in reverse */
    for i, j := 0, len(buf) - 1; i < j; i, j = i + 1, j - 1 {
        buf[i], buf[j] = buf[j], buf[i]
    }

    /* assemble the result */
    var sb strings.Builder
    if neg {
        sb.WriteByte('-')
    }

    /* append the fraction if any */
    sb.Write(buf)
    if len(frac) != 0 {
        sb.WriteByte('.')
        sb.Write(frac)
    }
    return sb.String()
}

// carry propagates a rounding carry through the fraction digits, dropping the
// digits it turns into zeros. It returns 1 when the carry reaches the integer
// part.
func carry(frac *[]byte, radix int) float64 {
    for buf := *frac; len(buf) != 0; {
        c := buf[len(buf) - 1]
        buf = buf[:len(buf) - 1]

        /* reconstruct the digit */
        d := int(c - '0')
        if c > '9' {
            d = int(c - 'a') + 10
        }

        /* no further carry */
        if d + 1 < radix {
            *frac = append(buf, _Digits[d + 1])
            return 0
        }

        /* keep going */
        *frac = buf
    }
    return 1
}

// SafeReciprocalForDivByConst returns 1/c when multiplying by it gives
// exactly the same result as dividing by c for every dividend. That holds
// only for positive powers of two whose reciprocal is a normal number.
func SafeReciprocalForDivByConst(c float64) (float64, bool) {
    if c == 0 || !isNormal(c) {
        return 0, false
    }

    /* c must be exactly 2^(e-1) */
    frac, exp := math.Frexp(c)
    if frac != 0.5 {
        return 0, false
    }

    /* 1/c must be normal too */
    if exp - 1 == 1023 {
        return 0, false
    }

    /* safe to use the reciprocal */
    return math.Ldexp(1, -(exp - 1)), true
}

func isNormal(v float64) bool {
    return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) >= 0x1p-1022
}
