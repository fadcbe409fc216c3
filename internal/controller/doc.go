// Package controller sequences one wake-up of maxuptime.
//
// Each run samples uptime, derives "first run" from the absence of the
// standard registration, classifies the sample and applies the registration
// changes and user warnings for that condition. Terminal conditions run a
// countdown and then request a restart; the restart request is always the
// last thing such a run does.
//
// Nothing is kept between runs. The only state carried forward lives in the
// trigger registry, which is why the install/remove order below matters:
//   - the standard registration is installed before a grace countdown starts,
//     so the grace path can be taken at most once per machine;
//   - the accelerated registration is removed on every run that is not
//     UrgentWarning and installed on every run that is.
package controller
