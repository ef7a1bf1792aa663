package mode

import "strconv"

// maxCountValue caps accumulated count prefixes so that held-down digit
// keys cannot overflow repeat math.
const maxCountValue = 1000000

// appendCountDigit folds one decimal digit into an accumulating count,
// saturating at maxCountValue.
func appendCountDigit(current, digit int) int {
	next := current*10 + digit
	if next > maxCountValue {
		return maxCountValue
	}
	return next
}

// countState tracks the two count slots of the normal-mode grammar: the
// prefix count typed before an operator and the motion count typed after
// it. "3d2w" holds prefix 3 and motion 2.
type countState struct {
	prefix    int
	motion    int
	hasPrefix bool
	hasMotion bool
}

func (c *countState) reset() {
	*c = countState{}
}

// appendPrefix accumulates a digit into the prefix slot.
func (c *countState) appendPrefix(digit int) {
	c.prefix = appendCountDigit(c.prefix, digit)
	c.hasPrefix = true
}

// appendMotion accumulates a digit into the motion slot.
func (c *countState) appendMotion(digit int) {
	c.motion = appendCountDigit(c.motion, digit)
	c.hasMotion = true
}

// consumeOr resolves the effective repeat count and clears both slots.
// A motion count multiplies the prefix count; with neither set the
// fallback applies. The product saturates at maxCountValue.
func (c *countState) consumeOr(fallback int) int {
	count := fallback
	if c.hasMotion && c.motion > 0 {
		count = c.motion
		if c.hasPrefix && c.prefix > 0 {
			count *= c.prefix
			if count > maxCountValue {
				count = maxCountValue
			}
		}
	} else if c.hasPrefix && c.prefix > 0 {
		count = c.prefix
	}
	c.reset()
	return count
}

// pendingStatus renders the in-progress key sequence for the status
// line, prefix count first, motion count last: "3d2".
func (c *countState) pendingStatus(pending string) string {
	status := ""
	if c.hasPrefix && c.prefix > 0 {
		status += strconv.Itoa(c.prefix)
	}
	status += pending
	if c.hasMotion && c.motion > 0 {
		status += strconv.Itoa(c.motion)
	}
	return status
}
