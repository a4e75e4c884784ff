package sqlinline

const QEnsureTitleGuardTable = `--sql 95cc8f02-c714-4c20-a07e-26640f921587
create table if not exists brand_title_guard (
  client_ip text primary key,
  title text not null,
  updated_at timestamptz not null default now()
);
`

// QClaimGuardedTitle stores $2 for client $1 and returns the client key,
// or no row when $2 is already the unexpired title. A non-positive $3
// disables expiry.
const QClaimGuardedTitle = `--sql 2b627e61-6a83-4986-8c42-4f396c343de6
insert into brand_title_guard (client_ip, title, updated_at)
values ($1::text, $2::text, now())
on conflict (client_ip) do update set
  title = excluded.title,
  updated_at = excluded.updated_at
where brand_title_guard.title <> excluded.title
   or ($3::int > 0 and brand_title_guard.updated_at <= now() - make_interval(secs => $3::int))
returning client_ip;
`
